package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alquila-alerts/internal/domain"
	"github.com/alquila-alerts/internal/pkg/validate"
)

const (
	testMessage = "Mensaje de prueba de Alquila: tus alertas automáticas por WhatsApp están activas."
	testSubject = "Mensaje de prueba - Alertas Alquila"
)

type Service interface {
	Get(ctx context.Context, ownerID string) (*domain.AlertSettings, error)
	Update(ctx context.Context, ownerID string, req domain.UpdateAlertSettingsRequest) (*domain.AlertSettings, error)
	SendTest(ctx context.Context, ownerID string) (*TestResult, error)
}

// TestResult reports which channels accepted the test message.
type TestResult struct {
	WhatsAppSent bool `json:"whatsapp_sent"`
	EmailSent    bool `json:"email_sent"`
}

type settingsStore interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.AlertSettings, error)
	Upsert(ctx context.Context, s *domain.AlertSettings) error
}

type ownerDirectory interface {
	GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error)
}

type channel interface {
	SendMessage(ctx context.Context, to, message string) (bool, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	store   settingsStore
	owners  ownerDirectory
	channel channel
	mailer  mailer
}

func NewService(store settingsStore, owners ownerDirectory, ch channel, m mailer) Service {
	return &service{store: store, owners: owners, channel: ch, mailer: m}
}

// Get returns the owner's stored settings, or the defaults when none were saved yet.
func (s *service) Get(ctx context.Context, ownerID string) (*domain.AlertSettings, error) {
	cur, err := s.store.GetByOwner(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultAlertSettings(ownerID), nil
	}
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *service) Update(ctx context.Context, ownerID string, req domain.UpdateAlertSettingsRequest) (*domain.AlertSettings, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	cur, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if req.PaymentReminderDays != nil {
		cur.PaymentReminderDays = *req.PaymentReminderDays
	}
	if req.ContractExpiryDays != nil {
		cur.ContractExpiryDays = *req.ContractExpiryDays
	}
	if req.WhatsAppEnabled != nil {
		cur.WhatsAppEnabled = *req.WhatsAppEnabled
	}
	if req.EmailEnabled != nil {
		cur.EmailEnabled = *req.EmailEnabled
	}
	if req.CustomMessage != nil {
		cur.CustomMessage = *req.CustomMessage
	}
	if err := s.store.Upsert(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

// SendTest sends a test message to the owner's own WhatsApp number, and an email copy
// when email alerts are enabled.
func (s *service) SendTest(ctx context.Context, ownerID string) (*TestResult, error) {
	cfg, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !cfg.WhatsAppEnabled {
		return nil, fmt.Errorf("whatsapp alerts are disabled: %w", domain.ErrBadRequest)
	}
	owner, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.WhatsAppNumber == "" {
		return nil, fmt.Errorf("owner has no whatsapp number: %w", domain.ErrBadRequest)
	}

	msg := testMessage
	if cfg.CustomMessage != "" {
		msg += "\n\n" + cfg.CustomMessage
	}

	res := &TestResult{}
	res.WhatsAppSent, err = s.channel.SendMessage(ctx, owner.WhatsAppNumber, msg)
	if err != nil {
		slog.Warn("test message not delivered", "owner_id", ownerID, "err", err)
		res.WhatsAppSent = false
	}

	if cfg.EmailEnabled && owner.Email != "" && s.mailer != nil {
		if err := s.mailer.SendEmail(owner.Email, testSubject, msg); err != nil {
			slog.Warn("test email not sent", "owner_id", ownerID, "err", err)
		} else {
			res.EmailSent = true
		}
	}
	return res, nil
}

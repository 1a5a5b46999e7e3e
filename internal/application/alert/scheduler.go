package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alquila-alerts/internal/domain"
	"github.com/alquila-alerts/internal/pkg/format"
	"github.com/alquila-alerts/internal/pkg/id"
	"github.com/alquila-alerts/internal/pkg/msgtemplate"
)

const (
	fallbackTenantName    = "Inquilino"
	fallbackPropertyTitle = "Propiedad"
	fallbackOwnerName     = "Propietario"
)

// Report counts what one scheduling or flush pass did.
type Report struct {
	Evaluated  int `json:"evaluated"`
	Skipped    int `json:"skipped"`
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
	Errors     int `json:"errors"`
}

func (r *Report) record(n *domain.Notification) {
	switch n.Status {
	case domain.NotificationSent:
		r.Sent++
	case domain.NotificationFailed:
		r.Failed++
	}
}

type SchedulerDeps struct {
	Contracts  ContractRepository
	Settings   AlertSettingsRepository
	Store      NotificationStore
	Dispatcher NotificationDispatcher
	Templates  *msgtemplate.Engine
	Now        func() time.Time
	// Location decides which calendar day "today" is. Defaults to UTC.
	Location *time.Location
}

// Scheduler turns active contracts into deduplicated notifications and dispatches the due ones.
// It holds no state between calls; everything lives in the NotificationStore.
type Scheduler struct {
	contracts  ContractRepository
	settings   AlertSettingsRepository
	store      NotificationStore
	dispatcher NotificationDispatcher
	templates  *msgtemplate.Engine
	now        func() time.Time
	loc        *time.Location
}

func NewScheduler(d SchedulerDeps) *Scheduler {
	s := &Scheduler{
		contracts:  d.Contracts,
		settings:   d.Settings,
		store:      d.Store,
		dispatcher: d.Dispatcher,
		templates:  d.Templates,
		now:        d.Now,
		loc:        d.Location,
	}
	if s.templates == nil {
		s.templates = msgtemplate.New()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	return s
}

func (s *Scheduler) today() time.Time {
	return domain.DateOf(s.now().In(s.loc))
}

// SchedulePaymentReminders creates a reminder for each pending payment inside its owner's lead window.
func (s *Scheduler) SchedulePaymentReminders(ctx context.Context) (Report, error) {
	contracts, err := s.contracts.ListActiveContracts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list active contracts: %w", err)
	}
	today := s.today()
	var rep Report
	for i := range contracts {
		c := &contracts[i]
		if c.Status != domain.ContractActive {
			continue
		}
		rep.Evaluated++
		settings, ok := s.settingsFor(ctx, c)
		if !ok {
			rep.Skipped++
			continue
		}
		for _, inst := range PaymentReminderInstances(c, settings.PaymentReminderDays, today) {
			n := s.paymentReminder(c, inst, settings)
			if err := s.scheduleOne(ctx, n, today, &rep); err != nil {
				slog.Warn("payment reminders aborted for contract", "contract_id", c.ID, "err", err)
				rep.Errors++
				break
			}
		}
	}
	return rep, nil
}

// ScheduleContractExpiryAlerts creates one renewal alert for each contract ending inside its owner's lead window.
func (s *Scheduler) ScheduleContractExpiryAlerts(ctx context.Context) (Report, error) {
	contracts, err := s.contracts.ListActiveContracts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list active contracts: %w", err)
	}
	today := s.today()
	var rep Report
	for i := range contracts {
		c := &contracts[i]
		if c.Status != domain.ContractActive {
			continue
		}
		rep.Evaluated++
		settings, ok := s.settingsFor(ctx, c)
		if !ok {
			rep.Skipped++
			continue
		}
		scheduled, due := ContractExpiryInstance(c, settings.ContractExpiryDays, today)
		if !due {
			continue
		}
		if err := s.scheduleOne(ctx, s.contractExpiry(c, scheduled, settings), today, &rep); err != nil {
			slog.Warn("contract expiry alert aborted", "contract_id", c.ID, "err", err)
			rep.Errors++
		}
	}
	return rep, nil
}

// ProcessPendingNotifications dispatches every pending notification scheduled on or before today.
func (s *Scheduler) ProcessPendingNotifications(ctx context.Context) (Report, error) {
	today := s.today()
	pending, err := s.store.ListPending(ctx, today)
	if err != nil {
		return Report{}, fmt.Errorf("list pending notifications: %w", err)
	}
	var rep Report
	for i := range pending {
		n := &pending[i]
		if n.Status != domain.NotificationPending || domain.DateOf(n.ScheduledDate).After(today) {
			continue
		}
		rep.Evaluated++
		rep.record(s.dispatcher.Dispatch(ctx, n))
	}
	return rep, nil
}

// settingsFor returns the owner's settings when the contract may be scheduled at all.
func (s *Scheduler) settingsFor(ctx context.Context, c *domain.Contract) (*domain.AlertSettings, bool) {
	ownerID := c.OwnerID()
	if ownerID == "" {
		slog.Info("contract has no owner, skipping", "contract_id", c.ID)
		return nil, false
	}
	settings, err := s.settings.GetByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, domain.ErrNotFound) || (err == nil && settings == nil):
		slog.Info("owner has no alert settings, skipping", "contract_id", c.ID, "owner_id", ownerID)
		return nil, false
	case err != nil:
		slog.Warn("could not load alert settings, skipping", "contract_id", c.ID, "owner_id", ownerID, "err", err)
		return nil, false
	case !settings.WhatsAppEnabled:
		slog.Info("whatsapp alerts disabled, skipping", "contract_id", c.ID, "owner_id", ownerID)
		return nil, false
	}
	return settings, true
}

// scheduleOne checks the dedup key, creates the record and dispatches it when already due.
func (s *Scheduler) scheduleOne(ctx context.Context, n *domain.Notification, today time.Time, rep *Report) error {
	existing, err := s.store.FindByDedupKey(ctx, n.ContractID, n.Type, n.ScheduledDate)
	switch {
	case err == nil && existing != nil:
		rep.Duplicates++
		return nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("find by dedup key: %w", err)
	}

	created, err := s.store.Create(ctx, n)
	if errors.Is(err, domain.ErrConflict) {
		// A concurrent run created the same instance between the lookup and the insert.
		rep.Duplicates++
		return nil
	}
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	rep.Created++

	if !created.ScheduledDate.After(today) {
		rep.record(s.dispatcher.Dispatch(ctx, created))
	}
	return nil
}

func (s *Scheduler) paymentReminder(c *domain.Contract, inst PaymentReminder, settings *domain.AlertSettings) *domain.Notification {
	amount := inst.Payment.Amount
	if amount <= 0 {
		amount = c.MonthlyRent
	}
	title := propertyTitle(c)
	body := s.templates.Render(string(domain.NotificationPaymentReminder), map[string]string{
		"tenant_name":    tenantName(c),
		"property_title": title,
		"amount":         format.Amount(amount),
		"due_date":       format.Date(domain.DateOf(inst.Payment.DueDate)),
		"owner_name":     ownerName(c),
	})
	return s.newNotification(c, domain.NotificationPaymentReminder, inst.ScheduledDate,
		"Recordatorio de pago - "+title, withCustomMessage(body, settings))
}

func (s *Scheduler) contractExpiry(c *domain.Contract, scheduled time.Time, settings *domain.AlertSettings) *domain.Notification {
	title := propertyTitle(c)
	body := s.templates.Render(string(domain.NotificationContractExpiry), map[string]string{
		"tenant_name":    tenantName(c),
		"property_title": title,
		"expiry_date":    format.Date(domain.DateOf(c.EndDate)),
		"owner_name":     ownerName(c),
	})
	return s.newNotification(c, domain.NotificationContractExpiry, scheduled,
		"Renovación de contrato - "+title, withCustomMessage(body, settings))
}

func (s *Scheduler) newNotification(c *domain.Contract, t domain.NotificationType, scheduled time.Time, title, body string) *domain.Notification {
	now := s.now().UTC()
	return &domain.Notification{
		NotificationID: id.NewAt(now),
		OwnerID:        c.OwnerID(),
		ContractID:     c.ID,
		Type:           t,
		Title:          title,
		Message:        body,
		ScheduledDate:  scheduled,
		Status:         domain.NotificationPending,
		DedupKey:       domain.DedupKey(c.ID, t, scheduled),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func withCustomMessage(body string, settings *domain.AlertSettings) string {
	if settings == nil || settings.CustomMessage == "" {
		return body
	}
	return body + "\n\n" + settings.CustomMessage
}

func tenantName(c *domain.Contract) string {
	if c.Tenant != nil && c.Tenant.Name != "" {
		return c.Tenant.Name
	}
	return fallbackTenantName
}

func propertyTitle(c *domain.Contract) string {
	if c.Property.Title != "" {
		return c.Property.Title
	}
	return fallbackPropertyTitle
}

func ownerName(c *domain.Contract) string {
	if c.Owner != nil && c.Owner.Name != "" {
		return c.Owner.Name
	}
	return fallbackOwnerName
}

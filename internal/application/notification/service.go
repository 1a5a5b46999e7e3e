package notification

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alquila-alerts/internal/domain"
	"github.com/alquila-alerts/internal/pkg/format"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	exportURLTTL        = 15 * time.Minute
)

// Service exposes an owner's alert history.
type Service interface {
	ListHistory(ctx context.Context, ownerID string, limit int) ([]domain.Notification, error)
	Get(ctx context.Context, notificationID, ownerID string) (*domain.Notification, error)
	ExportHistory(ctx context.Context, ownerID string) (*Export, error)
}

// Export describes an uploaded CSV of the owner's history.
type Export struct {
	Location string `json:"location"`
	URL      string `json:"url"`
	Rows     int    `json:"rows"`
}

type notificationStore interface {
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByOwner(ctx context.Context, ownerID string, limit int32) ([]domain.Notification, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	repo    notificationStore
	objects objectStore
	now     func() time.Time
}

func NewService(repo notificationStore, objects objectStore) Service {
	return &service{repo: repo, objects: objects, now: time.Now}
}

func (s *service) ListHistory(ctx context.Context, ownerID string, limit int) ([]domain.Notification, error) {
	return s.repo.ListByOwner(ctx, ownerID, clampLimit(limit))
}

func (s *service) Get(ctx context.Context, notificationID, ownerID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.OwnerID != ownerID {
		return nil, fmt.Errorf("forbidden: %w", domain.ErrForbidden)
	}
	return n, nil
}

// ExportHistory writes the owner's most recent notifications to a CSV object and returns
// a short-lived download URL.
func (s *service) ExportHistory(ctx context.Context, ownerID string) (*Export, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID, maxHistoryLimit)
	if err != nil {
		return nil, err
	}
	body, err := historyCSV(items)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%s/alert-history-%s.csv", ownerID, s.now().UTC().Format("20060102T150405Z"))
	loc, err := s.objects.Upload(ctx, key, bytes.NewReader(body), "text/csv; charset=utf-8")
	if err != nil {
		return nil, err
	}
	url, err := s.objects.PresignedURL(ctx, key, exportURLTTL)
	if err != nil {
		return nil, err
	}
	return &Export{Location: loc, URL: url, Rows: len(items)}, nil
}

func historyCSV(items []domain.Notification) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "contract_id", "type", "title", "scheduled_date", "sent_date", "status", "whatsapp_sent"})
	for _, n := range items {
		sent := ""
		if n.SentDate != nil {
			sent = n.SentDate.UTC().Format(time.RFC3339)
		}
		_ = w.Write([]string{
			n.NotificationID,
			n.ContractID,
			string(n.Type),
			n.Title,
			format.Date(n.ScheduledDate),
			sent,
			string(n.Status),
			strconv.FormatBool(n.WhatsAppSent),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write history csv: %w", err)
	}
	return buf.Bytes(), nil
}

func clampLimit(limit int) int32 {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	}
	return int32(limit)
}

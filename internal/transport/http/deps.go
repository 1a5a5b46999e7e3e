package http

import (
	"context"
	"io"
	"time"

	"github.com/alquila-alerts/internal/application/alert"
	"github.com/alquila-alerts/internal/domain"
	"github.com/alquila-alerts/internal/pkg/msgtemplate"
)

// AlertRunner runs one scheduler tick on demand.
type AlertRunner interface {
	RunOnce(ctx context.Context) (alert.RunReport, error)
}

// TemplateCatalogue lists the fixed message templates.
type TemplateCatalogue interface {
	Templates() []msgtemplate.Template
}

// SettingsRepository is the minimal interface the router requires from the settings store.
type SettingsRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.AlertSettings, error)
	Upsert(ctx context.Context, s *domain.AlertSettings) error
}

// OwnerDirectory resolves owner contact details.
type OwnerDirectory interface {
	GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error)
}

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByOwner(ctx context.Context, ownerID string, limit int32) ([]domain.Notification, error)
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

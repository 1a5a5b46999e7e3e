package alert

import (
	"context"
	"time"

	"github.com/alquila-alerts/internal/domain"
)

// ContractRepository supplies contracts with their property, owner, tenant and payments loaded.
type ContractRepository interface {
	ListActiveContracts(ctx context.Context) ([]domain.Contract, error)
	// GetContract returns domain.ErrNotFound when the contract does not exist.
	GetContract(ctx context.Context, contractID string) (*domain.Contract, error)
}

// AlertSettingsRepository returns domain.ErrNotFound when the owner has no settings.
type AlertSettingsRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.AlertSettings, error)
}

// NotificationStore persists notifications. Create must reject a second record with the
// same dedup key with domain.ErrConflict; Update must reject a record that already left
// pending with domain.ErrConflict. Claim reserves a pending record for one dispatcher and
// returns domain.ErrConflict when it is no longer pending or another live claim holds it.
// ListPending may be stale, so Claim is the only guard against a second send.
type NotificationStore interface {
	FindByDedupKey(ctx context.Context, contractID string, t domain.NotificationType, scheduledDate time.Time) (*domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	Claim(ctx context.Context, notificationID string, at time.Time) error
	Update(ctx context.Context, notificationID string, u domain.NotificationUpdate) error
	ListPending(ctx context.Context, before time.Time) ([]domain.Notification, error)
}

// DispatchChannel delivers a rendered message. false or an error both mean not delivered.
type DispatchChannel interface {
	SendMessage(ctx context.Context, to, message string) (bool, error)
}

// Mailer sends the owner's email copy of a delivered alert.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// NotificationDispatcher moves one pending notification to a terminal status.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n *domain.Notification) *domain.Notification
}

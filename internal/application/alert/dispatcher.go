package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alquila-alerts/internal/domain"
)

// DispatcherDeps wires a Dispatcher. Settings and Mailer are optional; without them
// no owner email copy is sent.
type DispatcherDeps struct {
	Contracts ContractRepository
	Store     NotificationStore
	Channel   DispatchChannel
	Settings  AlertSettingsRepository
	Mailer    Mailer
	Now       func() time.Time
}

// Dispatcher sends one notification through the channel and records the outcome.
// It never returns an error: every failure ends as a failed notification.
type Dispatcher struct {
	contracts ContractRepository
	store     NotificationStore
	channel   DispatchChannel
	settings  AlertSettingsRepository
	mailer    Mailer
	now       func() time.Time
}

func NewDispatcher(d DispatcherDeps) *Dispatcher {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		contracts: d.Contracts,
		store:     d.Store,
		channel:   d.Channel,
		settings:  d.Settings,
		mailer:    d.Mailer,
		now:       now,
	}
}

// Dispatch returns the notification as it was recorded. Notifications that already
// reached a terminal status, or that another dispatcher holds, are returned unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, n *domain.Notification) (out *domain.Notification) {
	if n.Status.Terminal() {
		return n
	}
	result := *n
	out = &result
	claimed := false
	defer func() {
		if r := recover(); r != nil {
			slog.Error("dispatch panicked", "notification_id", n.NotificationID, "panic", fmt.Sprint(r))
			if claimed && !result.Status.Terminal() {
				d.finish(ctx, &result, false)
			}
		}
	}()

	// The pending list can be stale; only the claim winner may send.
	if err := d.store.Claim(ctx, n.NotificationID, d.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			slog.Info("notification claimed elsewhere, skipping", "notification_id", n.NotificationID)
		} else {
			slog.Warn("could not claim notification", "notification_id", n.NotificationID, "err", err)
		}
		return out
	}
	claimed = true

	contract, err := d.contracts.GetContract(ctx, n.ContractID)
	if err != nil {
		slog.Warn("could not resolve contract for notification", "notification_id", n.NotificationID, "contract_id", n.ContractID, "err", err)
		d.finish(ctx, &result, false)
		return out
	}
	to := contract.TenantPhone()
	if to == "" {
		slog.Info("tenant has no whatsapp number, notification failed", "notification_id", n.NotificationID, "contract_id", n.ContractID)
		d.finish(ctx, &result, false)
		return out
	}

	ok, err := d.channel.SendMessage(ctx, to, n.Message)
	if err != nil {
		slog.Warn("dispatch channel error", "notification_id", n.NotificationID, "err", err)
		ok = false
	}
	d.finish(ctx, &result, ok)
	if ok {
		d.copyToOwner(ctx, contract, &result)
	}
	return out
}

func (d *Dispatcher) finish(ctx context.Context, n *domain.Notification, delivered bool) {
	sentAt := d.now().UTC()
	status := domain.NotificationFailed
	if delivered {
		status = domain.NotificationSent
	}
	n.Status = status
	n.SentDate = &sentAt
	n.WhatsAppSent = delivered
	n.UpdatedAt = sentAt

	err := d.store.Update(ctx, n.NotificationID, domain.NotificationUpdate{
		Status:       status,
		SentDate:     sentAt,
		WhatsAppSent: delivered,
	})
	switch {
	case errors.Is(err, domain.ErrConflict):
		slog.Warn("notification already left pending", "notification_id", n.NotificationID)
	case err != nil:
		slog.Warn("could not record dispatch outcome", "notification_id", n.NotificationID, "status", status, "err", err)
	}
}

// copyToOwner mails the delivered text to the owner when email alerts are on. Best effort.
func (d *Dispatcher) copyToOwner(ctx context.Context, c *domain.Contract, n *domain.Notification) {
	if d.mailer == nil || d.settings == nil || c.Owner == nil || c.Owner.Email == "" {
		return
	}
	s, err := d.settings.GetByOwner(ctx, n.OwnerID)
	if err != nil || s == nil || !s.EmailEnabled {
		return
	}
	if err := d.mailer.SendEmail(c.Owner.Email, n.Title, n.Message); err != nil {
		slog.Warn("owner email copy failed", "notification_id", n.NotificationID, "owner_id", n.OwnerID, "err", err)
	}
}

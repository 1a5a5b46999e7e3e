package alert

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RunReport aggregates one full tick.
type RunReport struct {
	PaymentReminders Report `json:"payment_reminders"`
	ContractExpiry   Report `json:"contract_expiry"`
	Pending          Report `json:"pending"`
}

// Runner is the periodic trigger: each tick schedules both alert kinds and then flushes
// whatever became due since the previous tick.
type Runner struct {
	scheduler *Scheduler
	interval  time.Duration
}

func NewRunner(s *Scheduler, interval time.Duration) *Runner {
	return &Runner{scheduler: s, interval: interval}
}

// RunOnce runs the three passes in order. A failing pass does not stop the others.
func (r *Runner) RunOnce(ctx context.Context) (RunReport, error) {
	var rep RunReport
	var errs []error

	payments, err := r.scheduler.SchedulePaymentReminders(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	rep.PaymentReminders = payments

	expiry, err := r.scheduler.ScheduleContractExpiryAlerts(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	rep.ContractExpiry = expiry

	pending, err := r.scheduler.ProcessPendingNotifications(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	rep.Pending = pending

	return rep, errors.Join(errs...)
}

// Start ticks until ctx is cancelled. The first run happens immediately.
func (r *Runner) Start(ctx context.Context) {
	slog.Info("alert runner started", "interval", r.interval.String())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		r.tick(ctx)
		select {
		case <-ctx.Done():
			slog.Info("alert runner stopped")
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	rep, err := r.RunOnce(ctx)
	if err != nil {
		slog.Warn("alert run finished with errors", "err", err)
	}
	slog.Info("alert run finished",
		"payment_created", rep.PaymentReminders.Created,
		"expiry_created", rep.ContractExpiry.Created,
		"pending_sent", rep.Pending.Sent,
		"pending_failed", rep.Pending.Failed,
	)
}

package alert

import (
	"time"

	"github.com/alquila-alerts/internal/domain"
)

// PaymentReminder is one reminder the policy requires for a pending payment.
type PaymentReminder struct {
	ScheduledDate time.Time
	Payment       domain.Payment
}

// PaymentReminderInstances returns a reminder for every pending payment due within
// leadDays of today, scheduled leadDays before its due date. Order follows c.Payments.
func PaymentReminderInstances(c *domain.Contract, leadDays int, today time.Time) []PaymentReminder {
	leadDays = max(leadDays, 0)
	horizon := domain.AddDays(today, leadDays)
	var out []PaymentReminder
	for _, p := range c.Payments {
		if p.Status != domain.PaymentPending || p.DueDate.IsZero() {
			continue
		}
		due := domain.DateOf(p.DueDate)
		if due.After(horizon) {
			continue
		}
		out = append(out, PaymentReminder{
			ScheduledDate: domain.AddDays(due, -leadDays),
			Payment:       p,
		})
	}
	return out
}

// ContractExpiryInstance returns the expiry alert date when the contract ends within leadDays of today.
func ContractExpiryInstance(c *domain.Contract, leadDays int, today time.Time) (time.Time, bool) {
	if c.EndDate.IsZero() {
		return time.Time{}, false
	}
	leadDays = max(leadDays, 0)
	end := domain.DateOf(c.EndDate)
	if end.After(domain.AddDays(today, leadDays)) {
		return time.Time{}, false
	}
	return domain.AddDays(end, -leadDays), true
}

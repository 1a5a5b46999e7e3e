package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alquila-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RunOnce(t *testing.T) {
	c := leaseWithPayment("c1", "owner-1", "+51987654321", 3200, date(2024, 12, 1))
	c.EndDate = date(2024, 12, 20)
	h := newHarness(nov29, []domain.Contract{c},
		map[string]*domain.AlertSettings{"owner-1": enabledSettings("owner-1", 3, 30)},
	)

	rep, err := NewRunner(h.scheduler, time.Minute).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, rep.PaymentReminders.Created)
	assert.Equal(t, 1, rep.ContractExpiry.Created)
	assert.Equal(t, 0, rep.Pending.Evaluated)
	assert.Len(t, h.channel.sent, 2)
}

func TestRunner_RunOnceContinuesAfterListFailure(t *testing.T) {
	h := newHarness(nov29, nil, nil)
	h.contracts.listErr = errors.New("db down")

	rep, err := NewRunner(h.scheduler, time.Minute).RunOnce(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, Report{}, rep.Pending)
}

func TestRunner_StartStopsOnCancel(t *testing.T) {
	h := newHarness(nov29, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		NewRunner(h.scheduler, time.Hour).Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

package validate

import (
	"errors"
	"testing"

	"github.com/alquila-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestStruct_SettingsWithinRange(t *testing.T) {
	req := domain.UpdateAlertSettingsRequest{PaymentReminderDays: intPtr(0), ContractExpiryDays: intPtr(90)}
	assert.NoError(t, Struct(req))
}

func TestStruct_SettingsOutOfRange(t *testing.T) {
	req := domain.UpdateAlertSettingsRequest{PaymentReminderDays: intPtr(31), ContractExpiryDays: intPtr(-1)}
	err := Struct(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "PaymentReminderDays")
	assert.Contains(t, err.Error(), "ContractExpiryDays")
}

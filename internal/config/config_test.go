package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "notifications", cfg.DynamoTables.Notifications)
	assert.Equal(t, "notification_keys", cfg.DynamoTables.NotificationKeys)
	assert.Equal(t, "America/Lima", cfg.AlertTimezone)
	assert.Equal(t, "whatsapp", cfg.DispatchChannel)
	assert.True(t, cfg.SchedulerEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DISPATCH_CHANNEL", "sms")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_INTERVAL_MINUTES", "15")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()
	assert.Equal(t, "sms", cfg.DispatchChannel)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, 15, cfg.SchedulerIntervalMinutes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("WHATSAPP_RATE_PER_SECOND", "lots")
	t.Setenv("SCHEDULER_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, 20, cfg.WhatsAppRatePerSecond)
	assert.True(t, cfg.SchedulerEnabled)
}

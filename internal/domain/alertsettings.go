package domain

import "time"

const (
	DefaultPaymentReminderDays = 3
	DefaultContractExpiryDays  = 30
)

// AlertSettings is the per-owner alert configuration.
type AlertSettings struct {
	OwnerID             string    `json:"owner_id"`
	PaymentReminderDays int       `json:"payment_reminder_days"`
	ContractExpiryDays  int       `json:"contract_expiry_days"`
	WhatsAppEnabled     bool      `json:"whatsapp_enabled"`
	EmailEnabled        bool      `json:"email_enabled"`
	CustomMessage       string    `json:"custom_message,omitempty"`
	UpdatedAt           time.Time `json:"updated,omitempty"`
}

// DefaultAlertSettings mirrors what a new owner sees in the settings page.
func DefaultAlertSettings(ownerID string) *AlertSettings {
	return &AlertSettings{
		OwnerID:             ownerID,
		PaymentReminderDays: DefaultPaymentReminderDays,
		ContractExpiryDays:  DefaultContractExpiryDays,
		WhatsAppEnabled:     true,
		EmailEnabled:        true,
	}
}

type UpdateAlertSettingsRequest struct {
	PaymentReminderDays *int    `json:"payment_reminder_days" validate:"omitempty,min=0,max=30"`
	ContractExpiryDays  *int    `json:"contract_expiry_days" validate:"omitempty,min=0,max=90"`
	WhatsAppEnabled     *bool   `json:"whatsapp_enabled"`
	EmailEnabled        *bool   `json:"email_enabled"`
	CustomMessage       *string `json:"custom_message" validate:"omitempty,max=500"`
}

package domain

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationPaymentReminder NotificationType = "payment_reminder"
	NotificationContractExpiry  NotificationType = "contract_expiry"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s NotificationStatus) Terminal() bool {
	return s == NotificationSent || s == NotificationFailed
}

type Notification struct {
	NotificationID string             `json:"id" dynamodbav:"notification_id"`
	OwnerID        string             `json:"owner_id" dynamodbav:"owner_id"`
	ContractID     string             `json:"contract_id" dynamodbav:"contract_id"`
	Type           NotificationType   `json:"notification_type" dynamodbav:"notification_type"`
	Title          string             `json:"title" dynamodbav:"title"`
	Message        string             `json:"message" dynamodbav:"message"`
	ScheduledDate  time.Time          `json:"scheduled_date" dynamodbav:"scheduled_date"`
	SentDate       *time.Time         `json:"sent_date" dynamodbav:"sent_date"`
	Status         NotificationStatus `json:"status" dynamodbav:"status"`
	WhatsAppSent   bool               `json:"whatsapp_sent" dynamodbav:"whatsapp_sent"`
	DedupKey       string             `json:"-" dynamodbav:"dedup_key"`
	ClaimedAt      *time.Time         `json:"-" dynamodbav:"claimed_at,omitempty"`
	CreatedAt      time.Time          `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time          `json:"updated" dynamodbav:"updated_at"`
}

// NotificationUpdate is the partial record the dispatcher writes when a notification leaves pending.
type NotificationUpdate struct {
	Status       NotificationStatus
	SentDate     time.Time
	WhatsAppSent bool
}

// DedupKey identifies one alert instance: at most one notification exists per key.
func DedupKey(contractID string, t NotificationType, scheduledDate time.Time) string {
	return fmt.Sprintf("%s#%s#%s", contractID, t, DateOf(scheduledDate).Format(DateLayout))
}

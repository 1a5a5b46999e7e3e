package sqlstore

import (
	"time"

	"github.com/alquila-alerts/internal/domain"
)

type userRow struct {
	ID             string `gorm:"primaryKey"`
	FullName       string
	Email          string
	WhatsAppNumber string `gorm:"column:whatsapp_number"`
	Role           string
}

func (userRow) TableName() string { return "users" }

type propertyRow struct {
	ID      string `gorm:"primaryKey"`
	Title   string
	OwnerID string   `gorm:"index"`
	Owner   *userRow `gorm:"foreignKey:OwnerID"`
}

func (propertyRow) TableName() string { return "properties" }

type tenantRow struct {
	ID             string `gorm:"primaryKey"`
	FullName       string
	Email          string
	WhatsAppNumber string `gorm:"column:whatsapp_number"`
}

func (tenantRow) TableName() string { return "tenants" }

type contractRow struct {
	ID          string `gorm:"primaryKey"`
	PropertyID  string
	Property    *propertyRow `gorm:"foreignKey:PropertyID"`
	TenantID    *string
	Tenant      *tenantRow `gorm:"foreignKey:TenantID"`
	MonthlyRent float64    `gorm:"type:decimal(10,2)"`
	StartDate   time.Time
	EndDate     time.Time
	PaymentDay  int
	Status      string       `gorm:"index"`
	Payments    []paymentRow `gorm:"foreignKey:ContractID"`
}

func (contractRow) TableName() string { return "rental_contracts" }

type paymentRow struct {
	ID         string `gorm:"primaryKey"`
	ContractID string `gorm:"index"`
	Amount     float64 `gorm:"type:decimal(10,2)"`
	DueDate    time.Time
	Status     string
}

func (paymentRow) TableName() string { return "payments" }

type alertSettingsRow struct {
	OwnerID             string `gorm:"primaryKey"`
	PaymentReminderDays int
	ContractExpiryDays  int
	WhatsAppEnabled     bool `gorm:"column:whatsapp_enabled"`
	EmailEnabled        bool
	CustomMessage       string
	UpdatedAt           time.Time
}

func (alertSettingsRow) TableName() string { return "alert_settings" }

func (u *userRow) toOwner() *domain.Owner {
	return &domain.Owner{
		ID:             u.ID,
		Name:           u.FullName,
		Email:          u.Email,
		WhatsAppNumber: u.WhatsAppNumber,
	}
}

func (r *contractRow) toDomain() domain.Contract {
	c := domain.Contract{
		ID:          r.ID,
		MonthlyRent: r.MonthlyRent,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		PaymentDay:  r.PaymentDay,
		Status:      domain.ContractStatus(r.Status),
	}
	if r.Property != nil {
		c.Property = domain.Property{ID: r.Property.ID, Title: r.Property.Title, OwnerID: r.Property.OwnerID}
		if r.Property.Owner != nil {
			c.Owner = r.Property.Owner.toOwner()
		}
	}
	if r.Tenant != nil {
		c.Tenant = &domain.Tenant{
			ID:             r.Tenant.ID,
			Name:           r.Tenant.FullName,
			WhatsAppNumber: r.Tenant.WhatsAppNumber,
			Email:          r.Tenant.Email,
		}
	}
	for _, p := range r.Payments {
		c.Payments = append(c.Payments, domain.Payment{
			ID:      p.ID,
			Amount:  p.Amount,
			DueDate: p.DueDate,
			Status:  domain.PaymentStatus(p.Status),
		})
	}
	return c
}

func (r *alertSettingsRow) toDomain() *domain.AlertSettings {
	return &domain.AlertSettings{
		OwnerID:             r.OwnerID,
		PaymentReminderDays: r.PaymentReminderDays,
		ContractExpiryDays:  r.ContractExpiryDays,
		WhatsAppEnabled:     r.WhatsAppEnabled,
		EmailEnabled:        r.EmailEnabled,
		CustomMessage:       r.CustomMessage,
		UpdatedAt:           r.UpdatedAt,
	}
}

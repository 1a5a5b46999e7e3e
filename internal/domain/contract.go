package domain

import "time"

type ContractStatus string

const (
	ContractActive     ContractStatus = "active"
	ContractExpired    ContractStatus = "expired"
	ContractPending    ContractStatus = "pending"
	ContractTerminated ContractStatus = "terminated"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// Contract is a rental contract as read from the marketplace database.
// Owner and Tenant are nil when the relation is missing upstream.
type Contract struct {
	ID          string         `json:"id"`
	Property    Property       `json:"property"`
	Owner       *Owner         `json:"owner,omitempty"`
	Tenant      *Tenant        `json:"tenant,omitempty"`
	MonthlyRent float64        `json:"monthly_rent"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	PaymentDay  int            `json:"payment_day"`
	Status      ContractStatus `json:"status"`
	Payments    []Payment      `json:"payments,omitempty"`
}

type Property struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
}

type Owner struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	WhatsAppNumber string `json:"whatsapp_number"`
}

type Tenant struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	WhatsAppNumber string `json:"whatsapp_number"`
	Email          string `json:"email"`
}

type Payment struct {
	ID      string        `json:"id"`
	Amount  float64       `json:"amount"`
	DueDate time.Time     `json:"due_date"`
	Status  PaymentStatus `json:"status"`
}

// OwnerID returns the owning user through the property relation.
func (c *Contract) OwnerID() string {
	if c.Property.OwnerID != "" {
		return c.Property.OwnerID
	}
	if c.Owner != nil {
		return c.Owner.ID
	}
	return ""
}

// TenantPhone returns the tenant's WhatsApp number or "" when there is no destination.
func (c *Contract) TenantPhone() string {
	if c.Tenant == nil {
		return ""
	}
	return c.Tenant.WhatsAppNumber
}

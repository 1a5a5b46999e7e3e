package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alquila-alerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "alerts.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	tenantID := "t-1"
	require.NoError(t, db.Create(&userRow{ID: "u-1", FullName: "Luis", Email: "luis@example.com", WhatsAppNumber: "+51911111111", Role: "owner"}).Error)
	require.NoError(t, db.Create(&propertyRow{ID: "p-1", Title: "Depto Miraflores", OwnerID: "u-1"}).Error)
	require.NoError(t, db.Create(&tenantRow{ID: tenantID, FullName: "Ana", WhatsAppNumber: "+51922222222"}).Error)
	require.NoError(t, db.Create(&contractRow{
		ID: "c-2", PropertyID: "p-1", TenantID: &tenantID, MonthlyRent: 3200,
		StartDate: day(2024, 1, 1), EndDate: day(2025, 12, 31), PaymentDay: 1, Status: "active",
	}).Error)
	require.NoError(t, db.Create(&contractRow{
		ID: "c-1", PropertyID: "p-1", MonthlyRent: 1500,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), PaymentDay: 5, Status: "active",
	}).Error)
	require.NoError(t, db.Create(&contractRow{
		ID: "c-3", PropertyID: "p-1", Status: "terminated",
	}).Error)
	require.NoError(t, db.Create(&paymentRow{ID: "pay-2", ContractID: "c-2", Amount: 3200, DueDate: day(2024, 12, 1), Status: "pending"}).Error)
	require.NoError(t, db.Create(&paymentRow{ID: "pay-1", ContractID: "c-2", Amount: 3200, DueDate: day(2024, 11, 1), Status: "paid"}).Error)
}

func TestContractRepo_ListActiveContracts(t *testing.T) {
	db := setupDB(t)
	seed(t, db)
	repo := NewContractRepo(db)

	contracts, err := repo.ListActiveContracts(context.Background())
	require.NoError(t, err)
	require.Len(t, contracts, 2)

	assert.Equal(t, "c-1", contracts[0].ID)
	assert.Nil(t, contracts[0].Tenant)
	assert.Empty(t, contracts[0].Payments)

	c := contracts[1]
	assert.Equal(t, "c-2", c.ID)
	assert.Equal(t, "Depto Miraflores", c.Property.Title)
	assert.Equal(t, "u-1", c.OwnerID())
	require.NotNil(t, c.Owner)
	assert.Equal(t, "luis@example.com", c.Owner.Email)
	assert.Equal(t, "+51922222222", c.TenantPhone())
	require.Len(t, c.Payments, 2)
	assert.Equal(t, "pay-1", c.Payments[0].ID, "payments ordered by due date")
	assert.Equal(t, domain.PaymentPending, c.Payments[1].Status)
}

func TestContractRepo_GetContract_NotFound(t *testing.T) {
	repo := NewContractRepo(setupDB(t))

	_, err := repo.GetContract(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSettingsRepo_UpsertAndGet(t *testing.T) {
	repo := NewSettingsRepo(setupDB(t))
	ctx := context.Background()

	_, err := repo.GetByOwner(ctx, "u-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	s := domain.DefaultAlertSettings("u-1")
	require.NoError(t, repo.Upsert(ctx, s))

	s.PaymentReminderDays = 5
	s.WhatsAppEnabled = false
	s.CustomMessage = "Gracias"
	require.NoError(t, repo.Upsert(ctx, s))

	got, err := repo.GetByOwner(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.PaymentReminderDays)
	assert.Equal(t, 30, got.ContractExpiryDays)
	assert.False(t, got.WhatsAppEnabled)
	assert.Equal(t, "Gracias", got.CustomMessage)
}

func TestOwnerRepo_GetOwner(t *testing.T) {
	db := setupDB(t)
	seed(t, db)
	repo := NewOwnerRepo(db)

	o, err := repo.GetOwner(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Luis", o.Name)

	_, err = repo.GetOwner(context.Background(), "nobody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "")
	assert.Error(t, err)
}

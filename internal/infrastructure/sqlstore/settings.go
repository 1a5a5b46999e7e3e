package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alquila-alerts/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) GetByOwner(ctx context.Context, ownerID string) (*domain.AlertSettings, error) {
	var row alertSettingsRow
	err := r.db.WithContext(ctx).First(&row, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("alert settings for %s: %w", ownerID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// Upsert writes the owner's settings, replacing any existing row.
func (r *SettingsRepo) Upsert(ctx context.Context, s *domain.AlertSettings) error {
	row := alertSettingsRow{
		OwnerID:             s.OwnerID,
		PaymentReminderDays: s.PaymentReminderDays,
		ContractExpiryDays:  s.ContractExpiryDays,
		WhatsAppEnabled:     s.WhatsAppEnabled,
		EmailEnabled:        s.EmailEnabled,
		CustomMessage:       s.CustomMessage,
		UpdatedAt:           time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert alert settings: %w", err)
	}
	s.UpdatedAt = row.UpdatedAt
	return nil
}

type OwnerRepo struct {
	db *gorm.DB
}

func NewOwnerRepo(db *gorm.DB) *OwnerRepo {
	return &OwnerRepo{db: db}
}

func (r *OwnerRepo) GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error) {
	var row userRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("owner %s: %w", ownerID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toOwner(), nil
}

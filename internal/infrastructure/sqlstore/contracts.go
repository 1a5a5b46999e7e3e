package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/alquila-alerts/internal/domain"
	"gorm.io/gorm"
)

type ContractRepo struct {
	db *gorm.DB
}

func NewContractRepo(db *gorm.DB) *ContractRepo {
	return &ContractRepo{db: db}
}

func (r *ContractRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Property.Owner").
		Preload("Tenant").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("due_date") })
}

// ListActiveContracts returns every active contract with its relations, ordered by id.
func (r *ContractRepo) ListActiveContracts(ctx context.Context) ([]domain.Contract, error) {
	var rows []contractRow
	err := r.withRelations(ctx).
		Where("status = ?", string(domain.ContractActive)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list active contracts: %w", err)
	}
	contracts := make([]domain.Contract, 0, len(rows))
	for i := range rows {
		contracts = append(contracts, rows[i].toDomain())
	}
	return contracts, nil
}

func (r *ContractRepo) GetContract(ctx context.Context, contractID string) (*domain.Contract, error) {
	var row contractRow
	err := r.withRelations(ctx).First(&row, "id = ?", contractID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("contract %s: %w", contractID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	c := row.toDomain()
	return &c, nil
}

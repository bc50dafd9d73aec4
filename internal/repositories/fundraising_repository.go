package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
)

type IFundraisingRepository interface {
	WithTx(tx *gorm.DB) IFundraisingRepository
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Fundraising, error)
	// IncrementCurrentAmount adds delta atomically in SQL. The accumulator
	// is never decremented by this subsystem.
	IncrementCurrentAmount(ctx context.Context, id uuid.UUID, delta int64) error
}

type FundraisingRepository struct {
	db *gorm.DB
}

func NewFundraisingRepository(db *gorm.DB) IFundraisingRepository {
	return &FundraisingRepository{db: db}
}

func (r *FundraisingRepository) WithTx(tx *gorm.DB) IFundraisingRepository {
	return &FundraisingRepository{db: tx}
}

func (r *FundraisingRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Fundraising, error) {
	var fundraising db_models.Fundraising
	err := r.db.WithContext(ctx).First(&fundraising, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fundraising, nil
}

func (r *FundraisingRepository) IncrementCurrentAmount(ctx context.Context, id uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Fundraising{}).
		Where("id = ?", id).
		Update("current_amount", gorm.Expr("current_amount + ?", delta)).Error
}

package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
)

type IPlanRepository interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*db_models.SubscriptionPlan, error)
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*db_models.SubscriptionPlan, error) {
	var plan db_models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
)

type IDonationRepository interface {
	WithTx(tx *gorm.DB) IDonationRepository
	Create(ctx context.Context, donation *db_models.Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Donation, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef uuid.UUID) error
}

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) IDonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) WithTx(tx *gorm.DB) IDonationRepository {
	return &DonationRepository{db: tx}
}

func (r *DonationRepository) Create(ctx context.Context, donation *db_models.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *DonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Donation, error) {
	var donation db_models.Donation
	err := r.db.WithContext(ctx).First(&donation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (r *DonationRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Donation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":         true,
			"payment_reference": paymentRef,
		}).Error
}

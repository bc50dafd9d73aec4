package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
	"sapipay/pkg/utils"
)

type ISubscriptionRepository interface {
	WithTx(tx *gorm.DB) ISubscriptionRepository
	Create(ctx context.Context, sub *db_models.UserSubscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.UserSubscription, error)
	// HasOverlapping reports whether the pair already holds a subscription
	// that is active or whose window still covers now. Lapsed deactivated
	// rows and dead failed attempts do not count.
	HasOverlapping(ctx context.Context, subscriberID, planID uuid.UUID, now int64) (bool, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// MarkPaid activates the subscription; the partial unique index on
	// active pairs turns a concurrent double-activation into
	// ErrAlreadySubscribed, which fails the settling transaction.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef uuid.UUID) error
	ExtendEndDate(ctx context.Context, id uuid.UUID, newEndDate int64, paymentRef uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListDueForRenewal(ctx context.Context, now int64) ([]db_models.UserSubscription, error)
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) ISubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) WithTx(tx *gorm.DB) ISubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *db_models.UserSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *SubscriptionRepository) HasOverlapping(ctx context.Context, subscriberID, planID uuid.UUID, now int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.UserSubscription{}).
		Where("subscriber_id = ? AND plan_id = ? AND (is_active = ? OR end_date >= ?)",
			subscriberID, planID, true, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.UserSubscription, error) {
	var sub db_models.UserSubscription
	err := r.db.WithContext(ctx).Preload("Plan").First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&db_models.UserSubscription{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *SubscriptionRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&db_models.UserSubscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":         true,
			"payment_reference": paymentRef,
		}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrAlreadySubscribed
	}
	return err
}

func (r *SubscriptionRepository) ExtendEndDate(ctx context.Context, id uuid.UUID, newEndDate int64, paymentRef uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.UserSubscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"end_date":          newEndDate,
			"payment_reference": paymentRef,
		}).Error
}

func (r *SubscriptionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.SetActive(ctx, id, false)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&db_models.UserSubscription{}).Error
}

func (r *SubscriptionRepository) ListDueForRenewal(ctx context.Context, now int64) ([]db_models.UserSubscription, error) {
	var subs []db_models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("is_active = ? AND one_time = ? AND end_date < ?", true, false, now).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

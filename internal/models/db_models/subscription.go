package db_models

import "github.com/google/uuid"

// UserSubscription binds a subscriber to a creator's plan. The engine only
// touches IsActive, EndDate and PaymentReference; everything else belongs to
// the profile domain. The partial unique index covers active rows only, so a
// lapsed or failed subscription never blocks a later purchase of the same
// plan; it backstops concurrent activations of the same pair.
type UserSubscription struct {
	BaseModel
	SubscriberID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_active_subscriber_plan,where:is_active = true"`
	CreatorID    uuid.UUID `gorm:"type:uuid;index"`
	PlanID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_active_subscriber_plan"`

	StartDate int64 `gorm:"not null"`
	EndDate   int64 `gorm:"not null;index"`

	IsActive               bool `gorm:"default:false;index"`
	OneTime                bool `gorm:"default:false"`
	CommissionBySubscriber bool `gorm:"default:false"`

	CardID           *uuid.UUID `gorm:"type:uuid"` // stored card used for renewals
	PaymentReference *uuid.UUID `gorm:"type:uuid"` // last settling transaction

	Plan SubscriptionPlan `gorm:"foreignKey:PlanID"`
}

package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SubscriptionPlan is a creator-owned tier. Price is in major currency units;
// the orchestrator converts to minor units before computing the split.
// DurationDays nil means the renewal window falls back to the length of the
// current calendar month.
type SubscriptionPlan struct {
	BaseModel
	CreatorID    uuid.UUID `gorm:"type:uuid;index"`
	Name         string    `gorm:"size:55"`
	Description  *string
	Price        int64 `gorm:"not null"`
	DurationDays *int64
	Perks        pq.StringArray `gorm:"type:text[]"`
	IsActive     bool           `gorm:"default:true"`

	Creator User `gorm:"foreignKey:CreatorID"`
}

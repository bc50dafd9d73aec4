package db_models

import "github.com/google/uuid"

// Donation becomes active only once its transaction settles. Message is
// already normalized (cleared or truncated per creator settings) by the time
// the row is created.
type Donation struct {
	BaseModel
	DonatorID uuid.UUID `gorm:"type:uuid;index"`
	CreatorID uuid.UUID `gorm:"type:uuid;index"`

	Amount  int64 // major units
	Message *string

	CommissionBySubscriber bool       `gorm:"default:false"`
	CardID                 uuid.UUID  `gorm:"type:uuid"`
	FundraisingID          *uuid.UUID `gorm:"type:uuid;index"`

	IsActive         bool       `gorm:"default:false"`
	PaymentReference *uuid.UUID `gorm:"type:uuid"`
}

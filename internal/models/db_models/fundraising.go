package db_models

import "github.com/google/uuid"

// Fundraising accumulates confirmed donations. CurrentAmount only ever grows,
// and only on the first transition of a donation's transaction to paid.
type Fundraising struct {
	BaseModel
	CreatorID   uuid.UUID `gorm:"type:uuid;index"`
	Title       string    `gorm:"size:155"`
	Description *string

	Goal            int64
	Deadline        int64 `gorm:"not null"`
	MinimumDonation int64 `gorm:"default:0"`
	CurrentAmount   int64 `gorm:"default:0"`
}

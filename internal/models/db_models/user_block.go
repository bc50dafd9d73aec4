package db_models

import "github.com/google/uuid"

// UserBlock records that blocker no longer wants contact with blocked.
// The renewal scheduler consults it in both directions.
type UserBlock struct {
	BaseModel
	BlockerID uuid.UUID `gorm:"type:uuid;index:idx_block_pair,unique"`
	BlockedID uuid.UUID `gorm:"type:uuid;index:idx_block_pair,unique"`
}

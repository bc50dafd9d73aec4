package db_models

import "github.com/google/uuid"

type CardType string

const (
	CardTypeVisa       CardType = "visa"
	CardTypeUzcard     CardType = "uzcard"
	CardTypeHumo       CardType = "humo"
	CardTypeMastercard CardType = "mastercard"
)

func ValidCardType(ps string) bool {
	switch CardType(ps) {
	case CardTypeVisa, CardTypeUzcard, CardTypeHumo, CardTypeMastercard:
		return true
	}
	return false
}

// Card starts as a pending row holding only the provider binding session id.
// The bind-card webhook fills in pan/holder/token and flips it active.
type Card struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;index"`

	CardOwner  string `gorm:"size:155"`
	Number     string `gorm:"size:16"`
	Expiration string `gorm:"size:4"`
	Type       *CardType
	Token      string

	MultibankSessionID string `gorm:"index"`

	IsActive bool `gorm:"default:false"`
	IsMain   bool `gorm:"default:false"`

	User User `gorm:"foreignKey:UserID"`
}

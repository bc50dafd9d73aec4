package db_models

// User is owned by the profile domain; the settlement engine reads the
// creator payout and donation-policy fields and never writes any of them.
type User struct {
	BaseModel
	Username    string `gorm:"size:150;uniqueIndex"`
	PhoneNumber string `gorm:"size:30;uniqueIndex"`
	IsCreator   bool   `gorm:"default:false"`

	// Payout routing identity.
	Pinfl             string `gorm:"size:14"`
	MultibankAccount  string `gorm:"size:20"`
	MultibankVerified bool   `gorm:"default:false"`

	// Percentage the platform keeps from this creator's revenue.
	SapiShare int64 `gorm:"default:10"`

	// Donation presentation policy.
	MinimumMessageDonation int64 `gorm:"default:0"`
	MaxDonationLetters     int   `gorm:"default:0"`
}

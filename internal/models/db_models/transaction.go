package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TxnStatusNew                 TransactionStatus = "new"
	TxnStatusPendingConfirmation TransactionStatus = "pending_confirmation"
	TxnStatusPaid                TransactionStatus = "paid"
	TxnStatusFailed              TransactionStatus = "failed"
)

// Terminal reports whether no further status transition is permitted.
func (s TransactionStatus) Terminal() bool {
	return s == TxnStatusPaid || s == TxnStatusFailed
}

type TransactionType string

const (
	TxnTypeSubscription TransactionType = "subscription"
	TxnTypeDonation     TransactionType = "donation"
)

type PaymentType string

const (
	PaymentTypeCard  PaymentType = "card"
	PaymentTypeClick PaymentType = "click"
	PaymentTypePayme PaymentType = "payme"
)

// LinkType tags the entity a transaction settles. A transaction links to at
// most one of a subscription or a donation, never both.
type LinkType string

const (
	LinkNone         LinkType = ""
	LinkSubscription LinkType = "subscription"
	LinkDonation     LinkType = "donation"
)

// Transaction is the ledger entry for a single payment attempt. Its ID is
// also the invoice_id sent to Multibank, which is how webhooks find their
// way back. Once paid, only CallbackPayload may still change.
type Transaction struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	CreatorID uuid.UUID `gorm:"type:uuid;index"`

	Amount         int64 // gross charge, minor units
	CreatorAmount  int64
	PlatformAmount int64

	TransactionType TransactionType   `gorm:"size:20"`
	PaymentType     PaymentType       `gorm:"size:10;default:card"`
	Status          TransactionStatus `gorm:"size:25;index;default:new"`

	CardToken     string
	ProviderTxnID *string `gorm:"index"`

	LinkType LinkType   `gorm:"size:20"`
	LinkID   *uuid.UUID `gorm:"type:uuid;index"`

	// Last raw webhook body received for this attempt, kept for audit.
	CallbackPayload datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}

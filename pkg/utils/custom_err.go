package utils

import "errors"

var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrCardNotFound         = errors.New("card not found")
	ErrCardNotOwned         = errors.New("card does not belong to payer")
	ErrCardInactive         = errors.New("card is not active")
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrCreatorNotFound      = errors.New("creator not found")
	ErrAlreadySubscribed    = errors.New("subscription already exists for this plan")
	ErrFundraisingClosed    = errors.New("fundraising deadline has passed")
	ErrDonationBelowMinimum = errors.New("donation amount is below the fundraising minimum")
	ErrCommissionConfig     = errors.New("commission configuration produces negative creator amount")
	ErrGatewayUnavailable   = errors.New("payment gateway returned an error")
	ErrTxnStateConflict     = errors.New("transaction is already in a terminal state")
	ErrInvoiceRequired      = errors.New("invoice_id is required")
	ErrDatabaseError        = errors.New("database error")
)

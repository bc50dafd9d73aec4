package response_models

// ChargeResponse is what a purchase or donation call returns. When
// NeedsStepUp is set the purchase is not complete: the payer must finish the
// OTP challenge at RedirectURL and the webhook finishes the settlement.
type ChargeResponse struct {
	NeedsStepUp   bool   `json:"needs_step_up"`
	TransactionID string `json:"transaction_id"`
	RedirectURL   string `json:"redirect_url,omitempty"`
}

type SubscribeResponse struct {
	SubscriptionID string         `json:"subscription_id"`
	EndDate        int64          `json:"end_date"`
	Charge         ChargeResponse `json:"charge"`
}

type DonateResponse struct {
	DonationID string         `json:"donation_id"`
	Charge     ChargeResponse `json:"charge"`
}

type BindCardResponse struct {
	CardID    string `json:"card_id"`
	SessionID string `json:"session_id"`
}

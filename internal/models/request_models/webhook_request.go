package request_models

// BindCardWebhookRequest is the provider's card-binding callback. payer_id
// carries the binding session id.
type BindCardWebhookRequest struct {
	PayerID    string `json:"payer_id"`
	Phone      string `json:"phone"`
	CardPAN    string `json:"card_pan"`
	HolderName string `json:"holder_name"`
	CardToken  string `json:"card_token"`
	PS         string `json:"ps"`
}

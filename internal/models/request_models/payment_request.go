package request_models

type SubscribeRequest struct {
	PlanID                 string `json:"plan_id" binding:"required,uuid"`
	CardID                 string `json:"card_id" binding:"required,uuid"`
	CommissionBySubscriber bool   `json:"commission_by_subscriber"`
	OneTime                bool   `json:"one_time"`
}

type DonateRequest struct {
	CreatorID              string  `json:"creator_id" binding:"required,uuid"`
	CardID                 string  `json:"card_id" binding:"required,uuid"`
	FundraisingID          *string `json:"fundraising_id" binding:"omitempty,uuid"`
	Amount                 int64   `json:"amount" binding:"required,gt=0"`
	Message                *string `json:"message"`
	CommissionBySubscriber bool    `json:"commission_by_subscriber"`
}

type CalculateCommissionRequest struct {
	Amount                 int64  `json:"amount" binding:"required,gt=0"`
	CreatorID              string `json:"creator_id" binding:"required,uuid"`
	CommissionBySubscriber bool   `json:"commission_by_subscriber"`
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sapipay/internal/models/request_models"
	"sapipay/internal/models/response_models"
	"sapipay/internal/services"
	"sapipay/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
	cardService    services.CardService
}

func NewPaymentController(paymentService services.PaymentService, cardService services.CardService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		cardService:    cardService,
	}
}

// Subscribe godoc
// @Summary Purchase a creator's subscription plan
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.SubscribeRequest true "Subscribe Request"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/subscribe [post]
func (p *PaymentController) Subscribe(c *gin.Context) {
	var request request_models.SubscribeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	planID, _ := uuid.Parse(request.PlanID)
	cardID, _ := uuid.Parse(request.CardID)

	result, err := p.paymentService.Subscribe(c.Request.Context(), services.SubscribeInput{
		SubscriberID:           userID,
		PlanID:                 planID,
		CardID:                 cardID,
		CommissionBySubscriber: request.CommissionBySubscriber,
		OneTime:                request.OneTime,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SubscribeResponse{
		SubscriptionID: result.Subscription.ID.String(),
		EndDate:        result.Subscription.EndDate,
		Charge:         chargeResponse(result.Charge),
	}, "Subscription payment initiated")
}

// Donate godoc
// @Summary Donate to a creator, optionally toward a fundraising
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.DonateRequest true "Donate Request"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/donate [post]
func (p *PaymentController) Donate(c *gin.Context) {
	var request request_models.DonateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	creatorID, _ := uuid.Parse(request.CreatorID)
	cardID, _ := uuid.Parse(request.CardID)
	var fundraisingID *uuid.UUID
	if request.FundraisingID != nil {
		id, err := uuid.Parse(*request.FundraisingID)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid fundraising_id")
			return
		}
		fundraisingID = &id
	}

	result, err := p.paymentService.Donate(c.Request.Context(), services.DonateInput{
		DonatorID:              userID,
		CreatorID:              creatorID,
		CardID:                 cardID,
		FundraisingID:          fundraisingID,
		AmountMajor:            request.Amount,
		Message:                request.Message,
		CommissionBySubscriber: request.CommissionBySubscriber,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.DonateResponse{
		DonationID: result.Donation.ID.String(),
		Charge:     chargeResponse(result.Charge),
	}, "Donation payment initiated")
}

// CalculateCommission godoc
// @Summary Preview the commission split for an amount
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CalculateCommissionRequest true "Calculate Request"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/calculate-commission [post]
func (p *PaymentController) CalculateCommission(c *gin.Context) {
	var request request_models.CalculateCommissionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	creatorID, _ := uuid.Parse(request.CreatorID)

	quote, err := p.paymentService.CalculateCommission(c.Request.Context(),
		request.Amount, creatorID, request.CommissionBySubscriber)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, quote, "Commission calculated")
}

func (p *PaymentController) BindCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := p.cardService.StartBindSession(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.BindCardResponse{
		CardID:    card.ID.String(),
		SessionID: card.MultibankSessionID,
	}, "Card binding session created")
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "user_id is invalid")
		return uuid.Nil, false
	}
	return id, true
}

func chargeResponse(charge services.ChargeResult) response_models.ChargeResponse {
	return response_models.ChargeResponse{
		NeedsStepUp:   charge.NeedsStepUp,
		TransactionID: charge.TransactionID.String(),
		RedirectURL:   charge.RedirectURL,
	}
}

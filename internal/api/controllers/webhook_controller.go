package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sapipay/internal/models/request_models"
	"sapipay/internal/services"
	"sapipay/pkg/utils"
)

type WebhookController struct {
	webhookService services.WebhookService
}

func NewWebhookController(webhookService services.WebhookService) *WebhookController {
	return &WebhookController{webhookService: webhookService}
}

// BindCardWebhook always acknowledges with 200; an unmatched card is logged,
// never surfaced to the provider.
func (w *WebhookController) BindCardWebhook(c *gin.Context) {
	var request request_models.BindCardWebhookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		log.Printf("bind-card webhook: malformed body: %v", err)
		c.Status(http.StatusOK)
		return
	}

	_ = w.webhookService.ReconcileBindCard(c.Request.Context(), services.BindCardEvent{
		SessionID:     request.PayerID,
		Phone:         request.Phone,
		CardPAN:       request.CardPAN,
		HolderName:    request.HolderName,
		CardToken:     request.CardToken,
		PaymentSystem: request.PS,
	})
	c.Status(http.StatusOK)
}

// PaymentWebhook answers 400 for a missing invoice_id, 404 for an unknown
// transaction and 200 for any successful or no-op reconciliation, so the
// provider's retry semantics apply only where a retry can help.
func (w *WebhookController) PaymentWebhook(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var envelope struct {
		InvoiceID string `json:"invoice_id"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	err = w.webhookService.ReconcilePayment(c.Request.Context(), envelope.InvoiceID, raw)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvoiceRequired):
			utils.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, utils.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, "transaction not found")
		default:
			log.Printf("payment webhook: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	utils.RespondSuccess(c, nil, "Webhook processed")
}

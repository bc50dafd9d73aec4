package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service sentinels onto HTTP status codes.
// Validation failures are 4xx, gateway trouble is 502, everything else 500.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCardNotOwned),
		errors.Is(err, ErrCardInactive),
		errors.Is(err, ErrAlreadySubscribed),
		errors.Is(err, ErrFundraisingClosed),
		errors.Is(err, ErrDonationBelowMinimum),
		errors.Is(err, ErrInvoiceRequired):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRecordNotFound),
		errors.Is(err, ErrCardNotFound),
		errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrCreatorNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrCommissionConfig):
		// Misconfigured creator share is an operator problem, not a payer one.
		log.Printf("commission config error: %v", err)
		RespondError(c, http.StatusInternalServerError, "commission configuration error")
	case errors.Is(err, ErrGatewayUnavailable):
		log.Printf("gateway error: %v", err)
		RespondError(c, http.StatusBadGateway, "payment provider error")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "internal server error")
	default:
		log.Printf("unhandled error: %v", err)
		RespondError(c, http.StatusInternalServerError, "internal server error")
	}
}

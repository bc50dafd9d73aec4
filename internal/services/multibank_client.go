package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"sapipay/internal/config"
	"sapipay/pkg/utils"
)

// SplitEntry is one payout leg of a split payment.
type SplitEntry struct {
	Type       string `json:"type"`
	Receipient string `json:"receipient"`
	Amount     int64  `json:"amount"`
}

// ReceiptItem is one OFD fiscal line. The receipt mirrors the split and the
// totals must sum to the gross charge.
type ReceiptItem struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type CreatePaymentRequest struct {
	CardToken   string
	Amount      int64
	InvoiceID   string
	Splits      []SplitEntry
	Receipt     []ReceiptItem
	CallbackURL string
}

type CreatePaymentResponse struct {
	ProviderTxnID string
	OTPHash       string
	CheckoutURL   string
}

// MultibankClient is the contract the orchestrator depends on. Every call is
// bounded by the configured timeout; any non-2xx or transport failure is a
// hard failure for the current attempt.
type MultibankClient interface {
	ResolveReceiver(ctx context.Context, pinfl, mfo, accountNo string) (string, error)
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)
	ConfirmPayment(ctx context.Context, providerTxnID string) (string, error)
}

type multibankClient struct {
	cfg  config.GatewayConfig
	http *http.Client
}

func NewMultibankClient(cfg config.GatewayConfig) MultibankClient {
	return &multibankClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type receiverRequest struct {
	Pinfl     string `json:"pinfl"`
	MFO       string `json:"mfo"`
	AccountNo string `json:"account_no"`
	Commitent bool   `json:"commitent"`
}

type receiverResponse struct {
	Data struct {
		UUID string `json:"uuid"`
	} `json:"data"`
}

func (m *multibankClient) ResolveReceiver(ctx context.Context, pinfl, mfo, accountNo string) (string, error) {
	var out receiverResponse
	err := m.postJSON(ctx, "/remittance/receipient", receiverRequest{
		Pinfl:     pinfl,
		MFO:       mfo,
		AccountNo: accountNo,
		Commitent: true,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Data.UUID == "" {
		return "", fmt.Errorf("%w: receiver response missing uuid", utils.ErrGatewayUnavailable)
	}
	return out.Data.UUID, nil
}

type createPaymentBody struct {
	Card struct {
		Token string `json:"token"`
	} `json:"card"`
	Amount      int64         `json:"amount"`
	StoreID     int64         `json:"store_id"`
	InvoiceID   string        `json:"invoice_id"`
	Split       []SplitEntry  `json:"split"`
	OFD         []ReceiptItem `json:"ofd"`
	CallbackURL string        `json:"callback_url"`
}

type createPaymentResponse struct {
	Data struct {
		TransactionID string `json:"transaction_id"`
		OTPHash       string `json:"otp_hash"`
		CheckoutURL   string `json:"checkout_url"`
	} `json:"data"`
}

func (m *multibankClient) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	body := createPaymentBody{
		Amount:      req.Amount,
		StoreID:     m.cfg.StoreID,
		InvoiceID:   req.InvoiceID,
		Split:       req.Splits,
		OFD:         req.Receipt,
		CallbackURL: req.CallbackURL,
	}
	body.Card.Token = req.CardToken

	var out createPaymentResponse
	if err := m.postJSON(ctx, "/payment", body, &out); err != nil {
		return nil, err
	}
	return &CreatePaymentResponse{
		ProviderTxnID: out.Data.TransactionID,
		OTPHash:       out.Data.OTPHash,
		CheckoutURL:   out.Data.CheckoutURL,
	}, nil
}

type confirmRequest struct {
	TransactionID string `json:"transaction_id"`
}

type confirmResponse struct {
	Data struct {
		Status string `json:"status"`
	} `json:"data"`
}

func (m *multibankClient) ConfirmPayment(ctx context.Context, providerTxnID string) (string, error) {
	var out confirmResponse
	if err := m.postJSON(ctx, "/payment/confirm", confirmRequest{TransactionID: providerTxnID}, &out); err != nil {
		return "", err
	}
	return out.Data.Status, nil
}

func (m *multibankClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrGatewayUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %s returned %d", utils.ErrGatewayUnavailable, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

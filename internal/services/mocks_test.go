package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sapipay/internal/config"
	"sapipay/internal/infra"
	"sapipay/internal/models/db_models"
)

// MockGateway is a hand-rolled MultibankClient double. Function fields
// override behavior per test; unset fields answer with a happy path.
type MockGateway struct {
	ResolveReceiverFn func(ctx context.Context, pinfl, mfo, accountNo string) (string, error)
	CreatePaymentFn   func(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)
	ConfirmPaymentFn  func(ctx context.Context, providerTxnID string) (string, error)

	ResolveCalls int64
	CreateCalls  int64
	ConfirmCalls int64
}

func (m *MockGateway) ResolveReceiver(ctx context.Context, pinfl, mfo, accountNo string) (string, error) {
	atomic.AddInt64(&m.ResolveCalls, 1)
	if m.ResolveReceiverFn != nil {
		return m.ResolveReceiverFn(ctx, pinfl, mfo, accountNo)
	}
	return "receiver-" + pinfl, nil
}

func (m *MockGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	atomic.AddInt64(&m.CreateCalls, 1)
	if m.CreatePaymentFn != nil {
		return m.CreatePaymentFn(ctx, req)
	}
	return &CreatePaymentResponse{ProviderTxnID: "mb-" + req.InvoiceID}, nil
}

func (m *MockGateway) ConfirmPayment(ctx context.Context, providerTxnID string) (string, error) {
	atomic.AddInt64(&m.ConfirmCalls, 1)
	if m.ConfirmPaymentFn != nil {
		return m.ConfirmPaymentFn(ctx, providerTxnID)
	}
	return "success", nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// sqlite cannot take concurrent writers; one connection serializes them
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := infra.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testGatewayConfig() config.GatewayConfig {
	return config.GatewayConfig{
		BaseURL:            "http://multibank.test",
		StoreID:            6,
		PlatformReceiverID: "platform-receiver",
		BankMFO:            "00491",
		CallbackURL:        "http://sapipay.test/integrations/multibank/payment/webhook",
		RequestTimeout:     time.Second,
		ReceiverCacheTTL:   time.Hour,
	}
}

func newTestCache() CacheService {
	return NewCacheService(nil, testGatewayConfig())
}

func createUser(t *testing.T, db *gorm.DB, phone string, sapiShare int64) *db_models.User {
	t.Helper()
	user := &db_models.User{
		Username:         "user-" + uuid.NewString()[:8],
		PhoneNumber:      phone,
		IsCreator:        sapiShare > 0,
		Pinfl:            "3051990" + phone[len(phone)-7:],
		MultibankAccount: "20212000900000001",
		SapiShare:        sapiShare,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createCard(t *testing.T, db *gorm.DB, owner *db_models.User, active bool) *db_models.Card {
	t.Helper()
	card := &db_models.Card{
		UserID:             owner.ID,
		CardOwner:          owner.Username,
		Number:             "8600000000000001",
		Token:              "tok-" + uuid.NewString()[:8],
		MultibankSessionID: uuid.NewString(),
		IsActive:           active,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("create card: %v", err)
	}
	return card
}

func createPlan(t *testing.T, db *gorm.DB, creator *db_models.User, price int64, durationDays *int64) *db_models.SubscriptionPlan {
	t.Helper()
	plan := &db_models.SubscriptionPlan{
		CreatorID:    creator.ID,
		Name:         "Supporter",
		Price:        price,
		DurationDays: durationDays,
		IsActive:     true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return plan
}

func createFundraising(t *testing.T, db *gorm.DB, creator *db_models.User, minimum int64, deadline time.Time) *db_models.Fundraising {
	t.Helper()
	fundraising := &db_models.Fundraising{
		CreatorID:       creator.ID,
		Title:           "New studio",
		Goal:            1_000_000,
		Deadline:        deadline.Unix(),
		MinimumDonation: minimum,
	}
	if err := db.Create(fundraising).Error; err != nil {
		t.Fatalf("create fundraising: %v", err)
	}
	return fundraising
}

func days(n int64) *int64 { return &n }

func getTransaction(t *testing.T, db *gorm.DB, id uuid.UUID) *db_models.Transaction {
	t.Helper()
	var txn db_models.Transaction
	if err := db.First(&txn, "id = ?", id).Error; err != nil {
		t.Fatalf("load transaction %s: %v", id, err)
	}
	return &txn
}

func getSubscription(t *testing.T, db *gorm.DB, id uuid.UUID) *db_models.UserSubscription {
	t.Helper()
	var sub db_models.UserSubscription
	if err := db.First(&sub, "id = ?", id).Error; err != nil {
		t.Fatalf("load subscription %s: %v", id, err)
	}
	return &sub
}

func getDonation(t *testing.T, db *gorm.DB, id uuid.UUID) *db_models.Donation {
	t.Helper()
	var donation db_models.Donation
	if err := db.First(&donation, "id = ?", id).Error; err != nil {
		t.Fatalf("load donation %s: %v", id, err)
	}
	return &donation
}

func getFundraising(t *testing.T, db *gorm.DB, id uuid.UUID) *db_models.Fundraising {
	t.Helper()
	var fundraising db_models.Fundraising
	if err := db.First(&fundraising, "id = ?", id).Error; err != nil {
		t.Fatalf("load fundraising %s: %v", id, err)
	}
	return &fundraising
}

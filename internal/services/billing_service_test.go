package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
	"sapipay/pkg/utils"
)

func newBillingServiceWith(db *gorm.DB, gateway MultibankClient, at time.Time) *billingService {
	pay := newPaymentServiceWith(db, gateway)
	pay.now = func() time.Time { return at }
	svc := NewBillingService(db, pay, 4).(*billingService)
	svc.now = func() time.Time { return at }
	return svc
}

func createActiveSubscription(t *testing.T, db *gorm.DB, subscriber, creator *db_models.User, plan *db_models.SubscriptionPlan, card *db_models.Card, endDate int64) *db_models.UserSubscription {
	t.Helper()
	sub := &db_models.UserSubscription{
		SubscriberID: subscriber.ID,
		CreatorID:    creator.ID,
		PlanID:       plan.ID,
		StartDate:    endDate - 30*24*3600,
		EndDate:      endDate,
		IsActive:     true,
		CardID:       &card.ID,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	return sub
}

func blockPair(t *testing.T, db *gorm.DB, blocker, blocked uuid.UUID) {
	t.Helper()
	if err := db.Create(&db_models.UserBlock{BlockerID: blocker, BlockedID: blocked}).Error; err != nil {
		t.Fatalf("create block: %v", err)
	}
}

func TestBillingService_RunRenewalCycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Given an expired subscription When renewed Then end date extends by the plan duration", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &MockGateway{}
		at := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
		svc := newBillingServiceWith(db, gateway, at)

		subscriber := createUser(t, db, "+998911000001", 0)
		creator := createUser(t, db, "+998911000002", 10)
		card := createCard(t, db, subscriber, true)
		plan := createPlan(t, db, creator, 50_000, days(30))
		sub := createActiveSubscription(t, db, subscriber, creator, plan, card, at.Add(-time.Hour).Unix())

		if err := svc.RunRenewalCycle(ctx); err != nil {
			t.Fatalf("RunRenewalCycle failed: %v", err)
		}

		renewed := getSubscription(t, db, sub.ID)
		if want := at.AddDate(0, 0, 30).Unix(); renewed.EndDate != want {
			t.Errorf("end_date = %d, want %d", renewed.EndDate, want)
		}
		if !renewed.IsActive {
			t.Error("subscription should stay active")
		}
		if renewed.PaymentReference == nil {
			t.Fatal("payment reference should record the renewal transaction")
		}
		txn := getTransaction(t, db, *renewed.PaymentReference)
		if txn.Status != db_models.TxnStatusPaid {
			t.Errorf("renewal transaction status = %s, want paid", txn.Status)
		}
		if txn.Amount != 50_000*100 {
			t.Errorf("renewal gross = %d, want plan price in minor units", txn.Amount)
		}
	})

	t.Run("Given a plan without duration When renewed in February 2024 Then window is 29 days", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &MockGateway{}
		at := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
		svc := newBillingServiceWith(db, gateway, at)

		subscriber := createUser(t, db, "+998911000003", 0)
		creator := createUser(t, db, "+998911000004", 10)
		card := createCard(t, db, subscriber, true)
		plan := createPlan(t, db, creator, 30_000, nil)
		sub := createActiveSubscription(t, db, subscriber, creator, plan, card, at.Add(-time.Hour).Unix())

		if err := svc.RunRenewalCycle(ctx); err != nil {
			t.Fatalf("RunRenewalCycle failed: %v", err)
		}

		renewed := getSubscription(t, db, sub.ID)
		if want := at.AddDate(0, 0, 29).Unix(); renewed.EndDate != want {
			t.Errorf("end_date = %d, want %d (leap February fallback)", renewed.EndDate, want)
		}
	})

	t.Run("Given a blocked pair When the cycle runs Then deactivated without a payment attempt", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &MockGateway{}
		at := time.Now()
		svc := newBillingServiceWith(db, gateway, at)

		subscriber := createUser(t, db, "+998911000005", 0)
		creator := createUser(t, db, "+998911000006", 10)
		card := createCard(t, db, subscriber, true)
		plan := createPlan(t, db, creator, 50_000, days(30))
		sub := createActiveSubscription(t, db, subscriber, creator, plan, card, at.Add(-time.Hour).Unix())
		blockPair(t, db, creator.ID, subscriber.ID)

		if err := svc.RunRenewalCycle(ctx); err != nil {
			t.Fatalf("RunRenewalCycle failed: %v", err)
		}

		if getSubscription(t, db, sub.ID).IsActive {
			t.Error("blocked subscription should be deactivated")
		}
		if gateway.ResolveCalls != 0 || gateway.CreateCalls != 0 {
			t.Errorf("gateway touched for a blocked pair: resolve=%d create=%d",
				gateway.ResolveCalls, gateway.CreateCalls)
		}
	})

	t.Run("Given one failing renewal When the cycle runs Then the rest still renew", func(t *testing.T) {
		db := newTestDB(t)
		at := time.Now()

		subscriber1 := createUser(t, db, "+998911000007", 0)
		subscriber2 := createUser(t, db, "+998911000008", 0)
		creator := createUser(t, db, "+998911000009", 10)
		card1 := createCard(t, db, subscriber1, true)
		card2 := createCard(t, db, subscriber2, true)
		plan1 := createPlan(t, db, creator, 50_000, days(30))
		plan2 := createPlan(t, db, creator, 70_000, days(30))
		sub1 := createActiveSubscription(t, db, subscriber1, creator, plan1, card1, at.Add(-time.Hour).Unix())
		sub2 := createActiveSubscription(t, db, subscriber2, creator, plan2, card2, at.Add(-time.Hour).Unix())

		gateway := &MockGateway{
			CreatePaymentFn: func(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
				if req.CardToken == card1.Token {
					return nil, utils.ErrGatewayUnavailable
				}
				return &CreatePaymentResponse{ProviderTxnID: "mb-" + req.InvoiceID}, nil
			},
		}
		svc := newBillingServiceWith(db, gateway, at)

		if err := svc.RunRenewalCycle(ctx); err != nil {
			t.Fatalf("RunRenewalCycle failed: %v", err)
		}

		failed := getSubscription(t, db, sub1.ID)
		if !failed.IsActive {
			t.Error("transient failure must not deactivate the subscription")
		}
		if failed.EndDate != sub1.EndDate {
			t.Error("failed renewal must not move the end date")
		}

		renewed := getSubscription(t, db, sub2.ID)
		if want := at.AddDate(0, 0, 30).Unix(); renewed.EndDate != want {
			t.Errorf("second subscription end_date = %d, want %d", renewed.EndDate, want)
		}
	})

	t.Run("Given a provider step-up demand When renewing Then the subscription is left for the next cycle", func(t *testing.T) {
		db := newTestDB(t)
		at := time.Now()
		gateway := &MockGateway{
			CreatePaymentFn: func(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
				return &CreatePaymentResponse{ProviderTxnID: "mb-otp", OTPHash: "otp"}, nil
			},
		}
		svc := newBillingServiceWith(db, gateway, at)

		subscriber := createUser(t, db, "+998911000010", 0)
		creator := createUser(t, db, "+998911000011", 10)
		card := createCard(t, db, subscriber, true)
		plan := createPlan(t, db, creator, 50_000, days(30))
		sub := createActiveSubscription(t, db, subscriber, creator, plan, card, at.Add(-time.Hour).Unix())

		if err := svc.RunRenewalCycle(ctx); err != nil {
			t.Fatalf("RunRenewalCycle failed: %v", err)
		}

		after := getSubscription(t, db, sub.ID)
		if !after.IsActive {
			t.Error("step-up demand is not a deactivation signal; the subscription must stay active")
		}
		if after.EndDate != sub.EndDate {
			t.Error("step-up renewal must not extend the subscription")
		}
		if gateway.ConfirmCalls != 0 {
			t.Error("nothing to confirm when the provider demands step-up")
		}
	})

	t.Run("Given a declined confirmation When renewing Then the subscription stays active for the next cycle", func(t *testing.T) {
		db := newTestDB(t)
		at := time.Now()
		gateway := &MockGateway{
			ConfirmPaymentFn: func(ctx context.Context, providerTxnID string) (string, error) {
				return "declined", nil
			},
		}
		svc := newBillingServiceWith(db, gateway, at)

		subscriber := createUser(t, db, "+998911000016", 0)
		creator := createUser(t, db, "+998911000017", 10)
		card := createCard(t, db, subscriber, true)
		plan := createPlan(t, db, creator, 50_000, days(30))
		sub := createActiveSubscription(t, db, subscriber, creator, plan, card, at.Add(-time.Hour).Unix())

		if err := svc.RunRenewalCycle(ctx); err != nil {
			t.Fatalf("RunRenewalCycle failed: %v", err)
		}

		after := getSubscription(t, db, sub.ID)
		if !after.IsActive {
			t.Error("a transient payment failure must not deactivate the subscription")
		}
		if after.EndDate != sub.EndDate {
			t.Error("failed renewal must not move the end date")
		}
	})

	t.Run("Given an inactive stored card When the cycle runs Then the renewal is skipped", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &MockGateway{}
		at := time.Now()
		svc := newBillingServiceWith(db, gateway, at)

		subscriber := createUser(t, db, "+998911000012", 0)
		creator := createUser(t, db, "+998911000013", 10)
		card := createCard(t, db, subscriber, false)
		plan := createPlan(t, db, creator, 50_000, days(30))
		sub := createActiveSubscription(t, db, subscriber, creator, plan, card, at.Add(-time.Hour).Unix())

		if err := svc.RunRenewalCycle(ctx); err != nil {
			t.Fatalf("RunRenewalCycle failed: %v", err)
		}

		after := getSubscription(t, db, sub.ID)
		if !after.IsActive || after.EndDate != sub.EndDate {
			t.Error("unusable card should leave the subscription untouched")
		}
		if gateway.CreateCalls != 0 {
			t.Error("no charge should be attempted without a usable card")
		}
	})

	t.Run("Given one-time and future subscriptions When the cycle runs Then neither is selected", func(t *testing.T) {
		db := newTestDB(t)
		gateway := &MockGateway{}
		at := time.Now()
		svc := newBillingServiceWith(db, gateway, at)

		subscriber := createUser(t, db, "+998911000014", 0)
		creator := createUser(t, db, "+998911000015", 10)
		card := createCard(t, db, subscriber, true)
		planA := createPlan(t, db, creator, 50_000, days(30))
		planB := createPlan(t, db, creator, 60_000, days(30))

		oneTime := createActiveSubscription(t, db, subscriber, creator, planA, card, at.Add(-time.Hour).Unix())
		if err := db.Model(&db_models.UserSubscription{}).Where("id = ?", oneTime.ID).Update("one_time", true).Error; err != nil {
			t.Fatalf("mark one-time: %v", err)
		}
		current := createActiveSubscription(t, db, subscriber, creator, planB, card, at.Add(24*time.Hour).Unix())

		if err := svc.RunRenewalCycle(ctx); err != nil {
			t.Fatalf("RunRenewalCycle failed: %v", err)
		}

		if gateway.CreateCalls != 0 {
			t.Errorf("gateway called %d times, want 0", gateway.CreateCalls)
		}
		if !getSubscription(t, db, oneTime.ID).IsActive || !getSubscription(t, db, current.ID).IsActive {
			t.Error("non-due subscriptions must be untouched")
		}
	})
}

func TestRenewalEnd(t *testing.T) {
	t.Run("Given an explicit duration Then it wins over the calendar fallback", func(t *testing.T) {
		from := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
		got := renewalEnd(from, days(7))
		if want := from.AddDate(0, 0, 7); !got.Equal(want) {
			t.Errorf("renewalEnd = %v, want %v", got, want)
		}
	})

	t.Run("Given no duration Then the window is the current month's day count", func(t *testing.T) {
		cases := []struct {
			from time.Time
			days int
		}{
			{time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC), 29},
			{time.Date(2023, time.February, 10, 12, 0, 0, 0, time.UTC), 28},
			{time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC), 30},
			{time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC), 31},
		}
		for _, tc := range cases {
			got := renewalEnd(tc.from, nil)
			if want := tc.from.AddDate(0, 0, tc.days); !got.Equal(want) {
				t.Errorf("renewalEnd(%v) = %v, want +%d days", tc.from, got, tc.days)
			}
		}
	})
}

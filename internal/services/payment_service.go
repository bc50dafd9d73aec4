package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/config"
	"sapipay/internal/models/db_models"
	"sapipay/internal/repositories"
	"sapipay/pkg/utils"
)

// LinkedEntity tags the domain record a charge settles: a subscription, a
// donation, or nothing. The zero value means no link.
type LinkedEntity struct {
	Type db_models.LinkType
	ID   uuid.UUID
}

type ChargeInput struct {
	Payer   *db_models.User
	Creator *db_models.User
	Card    *db_models.Card

	AmountMajor            int64
	Kind                   db_models.TransactionType
	PaymentType            db_models.PaymentType
	CommissionBySubscriber bool
	Link                   LinkedEntity
}

type ChargeResult struct {
	NeedsStepUp   bool
	TransactionID uuid.UUID
	RedirectURL   string
}

type SubscribeInput struct {
	SubscriberID           uuid.UUID
	PlanID                 uuid.UUID
	CardID                 uuid.UUID
	CommissionBySubscriber bool
	OneTime                bool
}

type SubscribeResult struct {
	Subscription *db_models.UserSubscription
	Charge       ChargeResult
}

type DonateInput struct {
	DonatorID              uuid.UUID
	CreatorID              uuid.UUID
	CardID                 uuid.UUID
	FundraisingID          *uuid.UUID
	AmountMajor            int64
	Message                *string
	CommissionBySubscriber bool
}

type DonateResult struct {
	Donation *db_models.Donation
	Charge   ChargeResult
}

// CommissionQuote is a read-only preview of a split, minor units.
type CommissionQuote struct {
	AmountMajor    int64 `json:"amount"`
	CreatorAmount  int64 `json:"creator_amount"`
	PlatformAmount int64 `json:"platform_amount"`
	ProcessingFee  int64 `json:"processing_fee"`
	GrossAmount    int64 `json:"gross_amount"`
}

// PaymentService is one of the two entry points the rest of the platform may
// use to move money (the other is the webhook reconciler).
type PaymentService interface {
	Charge(ctx context.Context, in ChargeInput) (*ChargeResult, error)
	Subscribe(ctx context.Context, in SubscribeInput) (*SubscribeResult, error)
	Donate(ctx context.Context, in DonateInput) (*DonateResult, error)
	CalculateCommission(ctx context.Context, amountMajor int64, creatorID uuid.UUID, commissionBySubscriber bool) (*CommissionQuote, error)
}

type paymentService struct {
	db      *gorm.DB
	gateway MultibankClient
	cache   CacheService
	cfg     config.GatewayConfig

	txns         repositories.ITransactionRepository
	subs         repositories.ISubscriptionRepository
	donations    repositories.IDonationRepository
	fundraisings repositories.IFundraisingRepository
	cards        repositories.ICardRepository
	plans        repositories.IPlanRepository
	users        repositories.IUserRepository

	now func() time.Time
}

func NewPaymentService(db *gorm.DB, gateway MultibankClient, cache CacheService, cfg config.GatewayConfig) PaymentService {
	return &paymentService{
		db:           db,
		gateway:      gateway,
		cache:        cache,
		cfg:          cfg,
		txns:         repositories.NewTransactionRepository(db),
		subs:         repositories.NewSubscriptionRepository(db),
		donations:    repositories.NewDonationRepository(db),
		fundraisings: repositories.NewFundraisingRepository(db),
		cards:        repositories.NewCardRepository(db),
		plans:        repositories.NewPlanRepository(db),
		users:        repositories.NewUserRepository(db),
		now:          time.Now,
	}
}

// Charge drives a single payment attempt end to end. The ledger row is
// created before any network call so a crash mid-flow always leaves an
// auditable record the webhook path can still settle.
func (p *paymentService) Charge(ctx context.Context, in ChargeInput) (*ChargeResult, error) {
	if in.Card.UserID != in.Payer.ID {
		return nil, utils.ErrCardNotOwned
	}
	if !in.Card.IsActive {
		return nil, utils.ErrCardInactive
	}

	amountMinor := in.AmountMajor * 100
	split, err := SplitAmount(amountMinor, in.Creator.SapiShare, in.CommissionBySubscriber)
	if err != nil {
		return nil, err
	}

	paymentType := in.PaymentType
	if paymentType == "" {
		paymentType = db_models.PaymentTypeCard
	}

	txn := &db_models.Transaction{
		UserID:          in.Payer.ID,
		CreatorID:       in.Creator.ID,
		Amount:          split.GrossAmount,
		CreatorAmount:   split.CreatorAmount,
		PlatformAmount:  split.PlatformAmount,
		TransactionType: in.Kind,
		PaymentType:     paymentType,
		Status:          db_models.TxnStatusNew,
		CardToken:       in.Card.Token,
		LinkType:        in.Link.Type,
		LinkID:          linkID(in.Link),
	}
	if err := p.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	receiverID, err := p.resolveReceiver(ctx, in.Creator)
	if err != nil {
		p.failTransaction(ctx, txn.ID)
		return nil, err
	}

	// Fiscal receipt mirrors the split; both sum to the gross charge.
	platformTotal := split.PlatformAmount + split.ProcessingFee
	created, err := p.gateway.CreatePayment(ctx, CreatePaymentRequest{
		CardToken: in.Card.Token,
		Amount:    split.GrossAmount,
		InvoiceID: txn.ID.String(),
		Splits: []SplitEntry{
			{Type: "account", Receipient: receiverID, Amount: split.CreatorAmount},
			{Type: "account", Receipient: p.cfg.PlatformReceiverID, Amount: platformTotal},
		},
		Receipt: []ReceiptItem{
			{Name: "Creator payout", Total: split.CreatorAmount},
			{Name: "Service commission", Total: platformTotal},
		},
		CallbackURL: p.cfg.CallbackURL,
	})
	if err != nil {
		p.failTransaction(ctx, txn.ID)
		return nil, err
	}
	if created.ProviderTxnID != "" {
		if err := p.txns.SetProviderTxnID(ctx, txn.ID, created.ProviderTxnID); err != nil {
			log.Printf("store provider txn id for %s: %v", txn.ID, err)
		}
	}

	if created.OTPHash != "" {
		// Step-up pause: the payer completes OTP out of band and the
		// payment webhook finishes the settlement. Freshly created links
		// are still pending; an existing subscription being renewed keeps
		// whatever state it has.
		if err := p.txns.TransitionStatus(ctx, txn.ID,
			db_models.TxnStatusPendingConfirmation, db_models.TxnStatusNew); err != nil {
			return nil, err
		}
		return &ChargeResult{
			NeedsStepUp:   true,
			TransactionID: txn.ID,
			RedirectURL:   created.CheckoutURL,
		}, nil
	}

	status, err := p.gateway.ConfirmPayment(ctx, created.ProviderTxnID)
	if err != nil || status != "success" {
		p.failTransaction(ctx, txn.ID)
		if err == nil {
			err = fmt.Errorf("%w: confirm returned status %q", utils.ErrGatewayUnavailable, status)
		}
		return nil, err
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.txns.WithTx(tx).TransitionStatus(ctx, txn.ID,
			db_models.TxnStatusPaid,
			db_models.TxnStatusNew, db_models.TxnStatusPendingConfirmation); err != nil {
			if errors.Is(err, utils.ErrTxnStateConflict) {
				// a webhook settled it first; side effects already applied
				return nil
			}
			return err
		}
		return finalizePaid(ctx, tx, txn)
	})
	if err != nil {
		p.failTransaction(ctx, txn.ID)
		return nil, err
	}

	return &ChargeResult{TransactionID: txn.ID}, nil
}

func (p *paymentService) Subscribe(ctx context.Context, in SubscribeInput) (*SubscribeResult, error) {
	subscriber, err := p.users.GetByID(ctx, in.SubscriberID)
	if err != nil {
		return nil, err
	}
	if subscriber == nil {
		return nil, utils.ErrRecordNotFound
	}

	plan, err := p.plans.GetActiveByID(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	creator, err := p.users.GetByID(ctx, plan.CreatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, utils.ErrCreatorNotFound
	}

	card, err := p.cards.GetByID(ctx, in.CardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, utils.ErrCardNotFound
	}
	if card.UserID != subscriber.ID {
		return nil, utils.ErrCardNotOwned
	}

	now := p.now()
	// A lapsed or failed subscription is no obstacle; only a row that is
	// active or still inside its paid window blocks a repeat purchase.
	overlapping, err := p.subs.HasOverlapping(ctx, subscriber.ID, plan.ID, now.Unix())
	if err != nil {
		return nil, err
	}
	if overlapping {
		return nil, utils.ErrAlreadySubscribed
	}

	sub := &db_models.UserSubscription{
		SubscriberID:           subscriber.ID,
		CreatorID:              creator.ID,
		PlanID:                 plan.ID,
		StartDate:              now.Unix(),
		EndDate:                renewalEnd(now, plan.DurationDays).Unix(),
		IsActive:               false,
		OneTime:                in.OneTime,
		CommissionBySubscriber: in.CommissionBySubscriber,
		CardID:                 &card.ID,
	}
	if err := p.subs.Create(ctx, sub); err != nil {
		return nil, err
	}

	charge, err := p.Charge(ctx, ChargeInput{
		Payer:                  subscriber,
		Creator:                creator,
		Card:                   card,
		AmountMajor:            plan.Price,
		Kind:                   db_models.TxnTypeSubscription,
		CommissionBySubscriber: in.CommissionBySubscriber,
		Link:                   LinkedEntity{Type: db_models.LinkSubscription, ID: sub.ID},
	})
	if err != nil {
		// no money moved; drop the pending row so a retry is not blocked
		if derr := p.subs.Delete(ctx, sub.ID); derr != nil {
			log.Printf("remove failed subscription attempt %s: %v", sub.ID, derr)
		}
		return nil, err
	}

	return &SubscribeResult{Subscription: sub, Charge: *charge}, nil
}

func (p *paymentService) Donate(ctx context.Context, in DonateInput) (*DonateResult, error) {
	donator, err := p.users.GetByID(ctx, in.DonatorID)
	if err != nil {
		return nil, err
	}
	if donator == nil {
		return nil, utils.ErrRecordNotFound
	}

	creator, err := p.users.GetByID(ctx, in.CreatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, utils.ErrCreatorNotFound
	}

	card, err := p.cards.GetByID(ctx, in.CardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, utils.ErrCardNotFound
	}
	if card.UserID != donator.ID {
		return nil, utils.ErrCardNotOwned
	}

	now := p.now()
	if in.FundraisingID != nil {
		fundraising, err := p.fundraisings.GetByID(ctx, *in.FundraisingID)
		if err != nil {
			return nil, err
		}
		if fundraising == nil {
			return nil, utils.ErrRecordNotFound
		}
		if fundraising.Deadline < now.Unix() {
			return nil, utils.ErrFundraisingClosed
		}
		if fundraising.MinimumDonation > in.AmountMajor {
			return nil, utils.ErrDonationBelowMinimum
		}
	}

	message := normalizeMessage(in.Message, in.AmountMajor, creator)

	donation := &db_models.Donation{
		DonatorID:              donator.ID,
		CreatorID:              creator.ID,
		Amount:                 in.AmountMajor,
		Message:                message,
		CommissionBySubscriber: in.CommissionBySubscriber,
		CardID:                 card.ID,
		FundraisingID:          in.FundraisingID,
		IsActive:               false,
	}
	if err := p.donations.Create(ctx, donation); err != nil {
		return nil, err
	}

	charge, err := p.Charge(ctx, ChargeInput{
		Payer:                  donator,
		Creator:                creator,
		Card:                   card,
		AmountMajor:            in.AmountMajor,
		Kind:                   db_models.TxnTypeDonation,
		CommissionBySubscriber: in.CommissionBySubscriber,
		Link:                   LinkedEntity{Type: db_models.LinkDonation, ID: donation.ID},
	})
	if err != nil {
		return nil, err
	}

	return &DonateResult{Donation: donation, Charge: *charge}, nil
}

func (p *paymentService) CalculateCommission(ctx context.Context, amountMajor int64, creatorID uuid.UUID, commissionBySubscriber bool) (*CommissionQuote, error) {
	creator, err := p.users.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, utils.ErrCreatorNotFound
	}

	split, err := SplitAmount(amountMajor*100, creator.SapiShare, commissionBySubscriber)
	if err != nil {
		return nil, err
	}
	return &CommissionQuote{
		AmountMajor:    amountMajor,
		CreatorAmount:  split.CreatorAmount,
		PlatformAmount: split.PlatformAmount,
		ProcessingFee:  split.ProcessingFee,
		GrossAmount:    split.GrossAmount,
	}, nil
}

func (p *paymentService) resolveReceiver(ctx context.Context, creator *db_models.User) (string, error) {
	if id, ok := p.cache.GetReceiver(ctx, creator.Pinfl); ok {
		return id, nil
	}
	id, err := p.gateway.ResolveReceiver(ctx, creator.Pinfl, p.cfg.BankMFO, creator.MultibankAccount)
	if err != nil {
		return "", err
	}
	p.cache.StoreReceiver(ctx, creator.Pinfl, id)
	return id, nil
}

func (p *paymentService) failTransaction(ctx context.Context, id uuid.UUID) {
	err := p.txns.TransitionStatus(ctx, id, db_models.TxnStatusFailed,
		db_models.TxnStatusNew, db_models.TxnStatusPendingConfirmation)
	if err != nil && !errors.Is(err, utils.ErrTxnStateConflict) {
		log.Printf("mark transaction %s failed: %v", id, err)
	}
}

// finalizePaid applies the financial side effects of a transaction's first
// transition to paid: activating the linked entity and, for donations tied
// to a fundraising, growing its accumulator. It must run inside the same
// gorm transaction as the guarded status update so the effects apply exactly
// once however many paths (synchronous confirm, webhook redelivery) race.
func finalizePaid(ctx context.Context, tx *gorm.DB, txn *db_models.Transaction) error {
	switch txn.LinkType {
	case db_models.LinkSubscription:
		if txn.LinkID == nil {
			return errMissingLink
		}
		return repositories.NewSubscriptionRepository(tx).MarkPaid(ctx, *txn.LinkID, txn.ID)
	case db_models.LinkDonation:
		if txn.LinkID == nil {
			return errMissingLink
		}
		donations := repositories.NewDonationRepository(tx)
		donation, err := donations.GetByID(ctx, *txn.LinkID)
		if err != nil {
			return err
		}
		if donation == nil {
			return errMissingLink
		}
		if err := donations.MarkPaid(ctx, donation.ID, txn.ID); err != nil {
			return err
		}
		if donation.FundraisingID != nil {
			return repositories.NewFundraisingRepository(tx).
				IncrementCurrentAmount(ctx, *donation.FundraisingID, txn.CreatorAmount)
		}
		return nil
	default:
		// nothing linked, nothing to settle
		return nil
	}
}

var errMissingLink = errors.New("transaction link points at a missing record")

// renewalEnd computes the end of a billing window starting at from. Plans
// without an explicit duration fall back to the length of the current
// calendar month, not a fixed 30 days.
func renewalEnd(from time.Time, durationDays *int64) time.Time {
	if durationDays != nil {
		return from.AddDate(0, 0, int(*durationDays))
	}
	return from.AddDate(0, 0, utils.DaysInMonth(from))
}

func normalizeMessage(message *string, amountMajor int64, creator *db_models.User) *string {
	if message == nil {
		return nil
	}
	if creator.MinimumMessageDonation > amountMajor {
		return nil
	}
	if creator.MaxDonationLetters > 0 {
		runes := []rune(*message)
		if len(runes) > creator.MaxDonationLetters {
			truncated := string(runes[:creator.MaxDonationLetters])
			return &truncated
		}
	}
	return message
}

func linkID(link LinkedEntity) *uuid.UUID {
	if link.Type == db_models.LinkNone {
		return nil
	}
	id := link.ID
	return &id
}

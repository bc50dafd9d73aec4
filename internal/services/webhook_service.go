package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
	"sapipay/internal/repositories"
	"sapipay/pkg/utils"
)

// BindCardEvent is the provider callback completing a card binding session.
type BindCardEvent struct {
	SessionID     string
	Phone         string
	CardPAN       string
	HolderName    string
	CardToken     string
	PaymentSystem string
}

// WebhookService reconciles asynchronous provider callbacks against the
// ledger. Reconciliation is idempotent under at-least-once delivery: a
// webhook replayed against a terminal transaction changes nothing.
type WebhookService interface {
	ReconcileBindCard(ctx context.Context, event BindCardEvent) error
	// ReconcilePayment returns ErrInvoiceRequired for a missing invoice id
	// and ErrRecordNotFound for an unknown transaction; any error inside
	// the settlement branch is swallowed after marking the attempt failed,
	// so the provider sees the delivery acknowledged.
	ReconcilePayment(ctx context.Context, invoiceID string, raw []byte) error
}

type webhookService struct {
	db    *gorm.DB
	cache CacheService
	txns  repositories.ITransactionRepository
	cards repositories.ICardRepository
	subs  repositories.ISubscriptionRepository
}

func NewWebhookService(db *gorm.DB, cache CacheService) WebhookService {
	return &webhookService{
		db:    db,
		cache: cache,
		txns:  repositories.NewTransactionRepository(db),
		cards: repositories.NewCardRepository(db),
		subs:  repositories.NewSubscriptionRepository(db),
	}
}

func (w *webhookService) ReconcileBindCard(ctx context.Context, event BindCardEvent) error {
	card, err := w.cards.FindPendingBySession(ctx, event.SessionID, event.Phone)
	if err != nil {
		log.Printf("bind-card lookup failed for session %s: %v", event.SessionID, err)
		return nil
	}
	if card == nil {
		// not fatal; the provider gets a 200 either way
		log.Printf("bind-card webhook matched no card (session %s)", event.SessionID)
		return nil
	}

	card.Number = event.CardPAN
	card.CardOwner = event.HolderName
	card.Token = event.CardToken
	if db_models.ValidCardType(event.PaymentSystem) {
		cardType := db_models.CardType(event.PaymentSystem)
		card.Type = &cardType
	}
	card.IsActive = true

	if err := w.cards.Save(ctx, card); err != nil {
		log.Printf("bind-card save failed for card %s: %v", card.ID, err)
	}
	return nil
}

// paymentEvent is the subset of the provider payload the reconciler acts on;
// the full raw body is stored on the transaction regardless.
type paymentEvent struct {
	Status string `json:"status"`
}

func (w *webhookService) ReconcilePayment(ctx context.Context, invoiceID string, raw []byte) error {
	if invoiceID == "" {
		return utils.ErrInvoiceRequired
	}
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return utils.ErrRecordNotFound
	}

	txn, err := w.txns.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if txn == nil {
		return utils.ErrRecordNotFound
	}

	replayKey := webhookKey(invoiceID, raw)
	if w.cache.SeenWebhook(ctx, replayKey) {
		return nil
	}

	if err := w.txns.StoreCallbackPayload(ctx, txn.ID, raw); err != nil {
		log.Printf("store webhook payload for %s: %v", txn.ID, err)
	}

	if txn.Status.Terminal() {
		// repeat delivery against a settled attempt is a safe no-op
		w.cache.RememberWebhook(ctx, replayKey)
		return nil
	}

	var event paymentEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Printf("malformed payment webhook for %s: %v", txn.ID, err)
		w.failTransaction(ctx, txn.ID)
		w.releasePendingLink(ctx, txn)
		w.cache.RememberWebhook(ctx, replayKey)
		return nil
	}

	if event.Status != "success" || txn.LinkType == db_models.LinkNone {
		w.failTransaction(ctx, txn.ID)
		w.releasePendingLink(ctx, txn)
		w.cache.RememberWebhook(ctx, replayKey)
		return nil
	}

	err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := w.txns.WithTx(tx).TransitionStatus(ctx, txn.ID,
			db_models.TxnStatusPaid,
			db_models.TxnStatusNew, db_models.TxnStatusPendingConfirmation); err != nil {
			if errors.Is(err, utils.ErrTxnStateConflict) {
				// the synchronous confirm path settled it first
				return nil
			}
			return err
		}
		return finalizePaid(ctx, tx, txn)
	})
	if err != nil {
		// never leave the attempt dangling; the row still ends terminal
		log.Printf("payment webhook settlement for %s failed: %v", txn.ID, err)
		w.failTransaction(ctx, txn.ID)
		w.releasePendingLink(ctx, txn)
	}
	w.cache.RememberWebhook(ctx, replayKey)
	return nil
}

// releasePendingLink drops a subscription that was created for this attempt
// and never activated, so the failed purchase does not block a retry. An
// active subscription (a renewal attempt's link) is never touched here.
func (w *webhookService) releasePendingLink(ctx context.Context, txn *db_models.Transaction) {
	if txn.LinkType != db_models.LinkSubscription || txn.LinkID == nil {
		return
	}
	sub, err := w.subs.GetByID(ctx, *txn.LinkID)
	if err != nil || sub == nil || sub.IsActive {
		return
	}
	if err := w.subs.Delete(ctx, sub.ID); err != nil {
		log.Printf("release pending subscription %s: %v", sub.ID, err)
	}
}

func (w *webhookService) failTransaction(ctx context.Context, id uuid.UUID) {
	err := w.txns.TransitionStatus(ctx, id, db_models.TxnStatusFailed,
		db_models.TxnStatusNew, db_models.TxnStatusPendingConfirmation)
	if err != nil && !errors.Is(err, utils.ErrTxnStateConflict) {
		log.Printf("mark transaction %s failed: %v", id, err)
	}
}

func webhookKey(invoiceID string, raw []byte) string {
	sum := sha256.Sum256(append([]byte(invoiceID+":"), raw...))
	return hex.EncodeToString(sum[:])
}

package services

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
	"sapipay/internal/repositories"
)

// BillingService renews subscriptions that have run past their end date.
// Each subscription is processed in isolation: one failure never aborts the
// batch, and a transient payment failure leaves the subscription active for
// the next cycle. Only a block relationship causes deactivation.
type BillingService interface {
	RunRenewalCycle(ctx context.Context) error
}

type billingService struct {
	payments PaymentService
	subs     repositories.ISubscriptionRepository
	users    repositories.IUserRepository
	cards    repositories.ICardRepository
	workers  int

	now func() time.Time
}

func NewBillingService(db *gorm.DB, payments PaymentService, workers int) BillingService {
	if workers <= 0 {
		workers = 1
	}
	return &billingService{
		payments: payments,
		subs:     repositories.NewSubscriptionRepository(db),
		users:    repositories.NewUserRepository(db),
		cards:    repositories.NewCardRepository(db),
		workers:  workers,
		now:      time.Now,
	}
}

func (b *billingService) RunRenewalCycle(ctx context.Context) error {
	now := b.now()
	due, err := b.subs.ListDueForRenewal(ctx, now.Unix())
	if err != nil {
		// a failing listing is systemic; abort the whole batch
		return err
	}
	if len(due) == 0 {
		return nil
	}
	log.Printf("renewal cycle: %d subscriptions due", len(due))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range due {
		sub := due[i]
		g.Go(func() error {
			b.renewOne(ctx, sub, now)
			return nil
		})
	}
	return g.Wait()
}

func (b *billingService) renewOne(ctx context.Context, sub db_models.UserSubscription, now time.Time) {
	blocked, err := b.users.IsBlockedEither(ctx, sub.SubscriberID, sub.CreatorID)
	if err != nil {
		log.Printf("renewal %s: block check failed: %v", sub.ID, err)
		return
	}
	if blocked {
		// no payment attempt is made for blocked pairs
		if err := b.subs.Deactivate(ctx, sub.ID); err != nil {
			log.Printf("renewal %s: deactivate failed: %v", sub.ID, err)
		}
		return
	}

	if sub.CardID == nil {
		log.Printf("renewal %s: no stored card", sub.ID)
		return
	}
	card, err := b.cards.GetByID(ctx, *sub.CardID)
	if err != nil || card == nil || !card.IsActive {
		log.Printf("renewal %s: stored card unusable (err=%v)", sub.ID, err)
		return
	}

	subscriber, err := b.users.GetByID(ctx, sub.SubscriberID)
	if err != nil || subscriber == nil {
		log.Printf("renewal %s: subscriber lookup failed (err=%v)", sub.ID, err)
		return
	}
	creator, err := b.users.GetByID(ctx, sub.CreatorID)
	if err != nil || creator == nil {
		log.Printf("renewal %s: creator lookup failed (err=%v)", sub.ID, err)
		return
	}

	res, err := b.payments.Charge(ctx, ChargeInput{
		Payer:                  subscriber,
		Creator:                creator,
		Card:                   card,
		AmountMajor:            sub.Plan.Price,
		Kind:                   db_models.TxnTypeSubscription,
		CommissionBySubscriber: sub.CommissionBySubscriber,
		Link:                   LinkedEntity{Type: db_models.LinkSubscription, ID: sub.ID},
	})
	if err != nil {
		// retried on the next cycle; the subscription stays active
		log.Printf("renewal %s: charge failed: %v", sub.ID, err)
		return
	}
	if res.NeedsStepUp {
		log.Printf("renewal %s: provider demanded step-up, cannot complete non-interactively", sub.ID)
		return
	}

	newEnd := renewalEnd(now, sub.Plan.DurationDays)
	if err := b.subs.ExtendEndDate(ctx, sub.ID, newEnd.Unix(), res.TransactionID); err != nil {
		log.Printf("renewal %s: extend end date failed: %v", sub.ID, err)
	}
}

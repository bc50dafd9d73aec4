package billing_fx

import (
	"context"
	"log"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"sapipay/internal/config"
	"sapipay/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideBillingService),
	fx.Invoke(registerScheduler),
)

func provideBillingService(db *gorm.DB, payments services.PaymentService, cfg *config.Config) services.BillingService {
	return services.NewBillingService(db, payments, cfg.RenewalWorkers)
}

// registerScheduler runs the renewal batch on a fixed cadence for the whole
// lifetime of the process.
func registerScheduler(lc fx.Lifecycle, billing services.BillingService, cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.RenewalInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if err := billing.RunRenewalCycle(ctx); err != nil {
							log.Printf("renewal cycle aborted: %v", err)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

package payments_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"sapipay/internal/api/controllers"
	"sapipay/internal/config"
	"sapipay/internal/services"
)

var Module = fx.Provide(
	provideMultibankClient,
	providePaymentService,
	provideCardService,
	providePaymentController,
)

func provideMultibankClient(cfg *config.Config) services.MultibankClient {
	return services.NewMultibankClient(cfg.Gateway)
}

func providePaymentService(db *gorm.DB, gateway services.MultibankClient, cache services.CacheService, cfg *config.Config) services.PaymentService {
	return services.NewPaymentService(db, gateway, cache, cfg.Gateway)
}

func provideCardService(db *gorm.DB) services.CardService {
	return services.NewCardService(db)
}

func providePaymentController(paymentService services.PaymentService, cardService services.CardService) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService, cardService)
}

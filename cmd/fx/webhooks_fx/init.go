package webhooks_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"sapipay/internal/api/controllers"
	"sapipay/internal/services"
)

var Module = fx.Provide(provideWebhookService, provideWebhookController)

func provideWebhookService(db *gorm.DB, cache services.CacheService) services.WebhookService {
	return services.NewWebhookService(db, cache)
}

func provideWebhookController(webhookService services.WebhookService) *controllers.WebhookController {
	return controllers.NewWebhookController(webhookService)
}

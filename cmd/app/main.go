package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"sapipay/cmd/fx/billing_fx"
	"sapipay/cmd/fx/cache_fx"
	"sapipay/cmd/fx/config_fx"
	"sapipay/cmd/fx/db_fx"
	"sapipay/cmd/fx/payments_fx"
	"sapipay/cmd/fx/webhooks_fx"
	"sapipay/internal/api/controllers"
	"sapipay/internal/config"
	"sapipay/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		cache_fx.Module,
		payments_fx.Module,
		webhooks_fx.Module,
		billing_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at :%s", cfg.Port)
				if err := engine.Run(":" + cfg.Port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	paymentController *controllers.PaymentController,
	webhookController *controllers.WebhookController) *gin.Engine {

	gin.SetMode(cfg.Mode)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, cfg, paymentController, webhookController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg *config.Config,
	paymentController *controllers.PaymentController,
	webhookController *controllers.WebhookController) {

	payments := r.Group("/payments", middleware.JWTAuthMiddleware())
	payments.POST("/subscribe", paymentController.Subscribe)
	payments.POST("/donate", paymentController.Donate)
	payments.POST("/calculate-commission", paymentController.CalculateCommission)

	cards := r.Group("/cards", middleware.JWTAuthMiddleware())
	cards.POST("/bind", paymentController.BindCard)

	hooks := r.Group("/integrations/multibank",
		middleware.WebhookAuthMiddleware(cfg.Gateway.WebhookSecret))
	hooks.POST("/bind-card/webhook", webhookController.BindCardWebhook)
	hooks.POST("/payment/webhook", webhookController.PaymentWebhook)
}

package infra

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sapipay/internal/config"
	"sapipay/internal/models/db_models"
)

func InitPostgresql(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return db
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.User{},
		&db_models.UserBlock{},
		&db_models.Card{},
		&db_models.SubscriptionPlan{},
		&db_models.UserSubscription{},
		&db_models.Donation{},
		&db_models.Fundraising{},
		&db_models.Transaction{},
	)
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}
}

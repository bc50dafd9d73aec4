package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// GatewayConfig carries every Multibank routing identity and transport
// setting. Nothing provider-related is hardcoded outside this struct.
type GatewayConfig struct {
	BaseURL            string
	StoreID            int64
	PlatformReceiverID string
	BankMFO            string
	CallbackURL        string
	WebhookSecret      string
	RequestTimeout     time.Duration
	ReceiverCacheTTL   time.Duration
}

type Config struct {
	Port        string
	Mode        string
	PostgresURL string
	RedisURL    string
	JWTSecret   string

	Gateway GatewayConfig

	RenewalInterval time.Duration
	RenewalWorkers  int
}

func Load() *Config {
	// Missing .env is fine in containers; env vars win either way.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Mode:        getEnv("GIN_MODE", "debug"),
		PostgresURL: getEnv("POSTGRES_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Gateway: GatewayConfig{
			BaseURL:            getEnv("MULTIBANK_BASE_URL", "https://dev-mesh.multibank.uz"),
			StoreID:            getEnvInt64("MULTIBANK_STORE_ID", 6),
			PlatformReceiverID: getEnv("MULTIBANK_PLATFORM_RECEIVER_ID", ""),
			BankMFO:            getEnv("MULTIBANK_MFO", "00491"),
			CallbackURL:        getEnv("MULTIBANK_CALLBACK_URL", ""),
			WebhookSecret:      getEnv("MULTIBANK_WEBHOOK_SECRET", ""),
			RequestTimeout:     getEnvDuration("MULTIBANK_TIMEOUT", 15*time.Second),
			ReceiverCacheTTL:   getEnvDuration("MULTIBANK_RECEIVER_CACHE_TTL", 24*time.Hour),
		},
		RenewalInterval: getEnvDuration("RENEWAL_INTERVAL", 12*time.Hour),
		RenewalWorkers:  int(getEnvInt64("RENEWAL_WORKERS", 8)),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

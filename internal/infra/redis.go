package infra

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"sapipay/internal/config"
)

// InitRedis returns nil when redis is unreachable; callers degrade to
// in-process behavior instead of failing startup.
func InitRedis(cfg *config.Config) *redis.Client {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, continuing without redis: %v", err)
		return nil
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, continuing without it: %v", err)
		return nil
	}

	return client
}

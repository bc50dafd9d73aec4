package services

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"sapipay/internal/config"
	mem "sapipay/pkg/memcache"
)

// CacheService keeps payout receiver ids and a seen-webhook set. Backed by
// redis when available, by an in-process TTL store otherwise; losing either
// only costs extra provider calls or extra (still idempotent) reconciliations.
type CacheService interface {
	GetReceiver(ctx context.Context, pinfl string) (string, bool)
	StoreReceiver(ctx context.Context, pinfl, receiverID string)
	SeenWebhook(ctx context.Context, key string) bool
	RememberWebhook(ctx context.Context, key string)
}

const webhookSeenTTL = 48 * time.Hour

type cacheService struct {
	client      *redis.Client
	local       *mem.TTLStore
	receiverTTL time.Duration
}

func NewCacheService(client *redis.Client, cfg config.GatewayConfig) CacheService {
	return &cacheService{
		client:      client,
		local:       mem.NewTTLStore(),
		receiverTTL: cfg.ReceiverCacheTTL,
	}
}

func (c *cacheService) GetReceiver(ctx context.Context, pinfl string) (string, bool) {
	key := "multibank_receiver:" + pinfl
	if c.client == nil {
		return c.local.Get(key)
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("receiver cache read failed: %v", err)
		}
		return "", false
	}
	return val, true
}

func (c *cacheService) StoreReceiver(ctx context.Context, pinfl, receiverID string) {
	key := "multibank_receiver:" + pinfl
	if c.client == nil {
		c.local.Set(key, receiverID, c.receiverTTL)
		return
	}
	if err := c.client.Set(ctx, key, receiverID, c.receiverTTL).Err(); err != nil {
		log.Printf("receiver cache write failed: %v", err)
	}
}

func (c *cacheService) SeenWebhook(ctx context.Context, key string) bool {
	key = "webhook_seen:" + key
	if c.client == nil {
		return c.local.Has(key)
	}
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("webhook guard read failed: %v", err)
		return false
	}
	return n > 0
}

func (c *cacheService) RememberWebhook(ctx context.Context, key string) {
	key = "webhook_seen:" + key
	if c.client == nil {
		c.local.Set(key, "1", webhookSeenTTL)
		return
	}
	if err := c.client.Set(ctx, key, "1", webhookSeenTTL).Err(); err != nil {
		log.Printf("webhook guard write failed: %v", err)
	}
}

package cache_fx

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"sapipay/internal/config"
	"sapipay/internal/infra"
	"sapipay/internal/services"
)

var Module = fx.Provide(provideRedis, provideCacheService)

func provideRedis(cfg *config.Config) *redis.Client {
	return infra.InitRedis(cfg)
}

func provideCacheService(client *redis.Client, cfg *config.Config) services.CacheService {
	return services.NewCacheService(client, cfg.Gateway)
}

package svc

import (
	"log"
	"strings"

	"github.com/zeromicro/go-zero/core/stores/redis"

	cachekeys "ashare-data/internal/cache"
	"ashare-data/internal/config"
	marketpkg "ashare-data/pkg/market"
)

// ServiceContext carries the dashboard's wired dependencies.
type ServiceContext struct {
	Config  *config.Config
	Market  marketpkg.Provider
	Fetcher *marketpkg.Fetcher

	// Cache is optional; nil disables history caching.
	Cache *redis.Redis
	TTL   cachekeys.TTLSet
}

func NewServiceContext(c *config.Config) *ServiceContext {
	marketCfg := c.Market.Value
	if marketCfg == nil {
		marketCfg = marketpkg.MustLoad()
	}

	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("failed to build market providers: %v", err)
	}
	provider, ok := providers[marketCfg.Default]
	if !ok {
		log.Fatalf("default market provider %q not found", marketCfg.Default)
	}

	svc := &ServiceContext{
		Config:  c,
		Market:  provider,
		Fetcher: marketpkg.NewFetcher(provider, c.MaxFetchAttempts),
		TTL:     cachekeys.NewTTLSet(c.TTL),
	}

	if strings.TrimSpace(c.Redis.Host) != "" {
		cache, err := redis.NewRedis(c.Redis)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		svc.Cache = cache
	}

	return svc
}

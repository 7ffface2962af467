package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/lairai/internal/backend"
	"github.com/Alturino/lairai/internal/config"
	"github.com/Alturino/lairai/internal/controller"
	"github.com/Alturino/lairai/internal/format"
	"github.com/Alturino/lairai/internal/infra"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/repository"
	"github.com/Alturino/lairai/internal/service"
	"github.com/Alturino/lairai/internal/session"
	"github.com/Alturino/lairai/internal/store"
)

type dependencies struct {
	services  controller.Services
	formatter *format.Formatter
	cache     *redis.Client
}

func (d *dependencies) Close() error {
	if d.cache == nil {
		return nil
	}
	return d.cache.Close()
}

// newDependencies builds the query cache, the backend client and every
// service on top of them.
func newDependencies(c context.Context, cfg *config.Config) (*dependencies, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cmd newDependencies").
		Logger()

	deps := &dependencies{}

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Str("driver", cfg.Cache.Driver).Msg("initializing cache")
	var cache store.Store
	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		client, err := infra.NewCacheClient(c, cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed initializing cache with error=%w", err)
		}
		deps.cache = client
		cache = store.NewRedisStore(client, cfg.Cache.TTL)
	case config.CacheDriverMemory, "":
		cache = store.NewMemoryStore(cfg.Cache.TTL)
	default:
		return nil, fmt.Errorf("failed initializing cache with error=unknown driver %s", cfg.Cache.Driver)
	}
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing formatter").Logger()
	logger.Info().Msg("initializing formatter")
	formatter, err := format.New(cfg.Locale)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("failed initializing formatter with error=%w", err)
	}
	deps.formatter = formatter
	logger.Info().Msg("initialized formatter")

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Str("baseUrl", cfg.Backend.BaseURL).Msg("initializing services")
	repo := repository.New(backend.NewClient(cfg.Backend), cache)
	orders := service.NewOrderService(repo)
	payments := service.NewPaymentService(repo, formatter.Location())
	deps.services = controller.Services{
		Tables:     service.NewTableService(repo),
		Menu:       service.NewMenuService(repo),
		Orders:     orders,
		Payments:   payments,
		Dashboard:  service.NewDashboardService(repo, payments),
		Settlement: service.NewSettlementService(orders, payments, formatter, cfg.Restaurant),
		Sessions:   session.NewManager(repo),
	}
	logger.Info().Msg("initialized services")

	return deps, nil
}

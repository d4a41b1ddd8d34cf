package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/partshop/internal/health"
	"github.com/vladislavdragonenkov/partshop/internal/storage/memory"
	"github.com/vladislavdragonenkov/partshop/internal/storage/postgres"
	"github.com/vladislavdragonenkov/partshop/internal/storage/redis"
)

const storageSlowThreshold = 250 * time.Millisecond

type runtimeDependencies struct {
	store          domain.SlotStore
	storageChecker healthcheck.Checker
	closeFn        func() error
}

// initRuntimeDependencies выбирает хранилище слотов по cfg.StorageDriver.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		store := memory.NewSlotStore()
		logger.Info("storage driver: memory")
		return &runtimeDependencies{
			store:          store,
			storageChecker: healthcheck.NewStorageChecker("storage", store, 0),
			closeFn:        func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage requires SHOP_POSTGRES_DSN")
		}
		pg, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.PostgresAutoMigrate {
			err = pg.MigrateUp(ctx, 0)
		} else {
			err = pg.EnsureSchema(ctx)
		}
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
		store := postgres.NewSlotStore(pg)
		logger.WithField("auto_migrate", cfg.PostgresAutoMigrate).Info("storage driver: postgres")
		return &runtimeDependencies{
			store:          store,
			storageChecker: healthcheck.NewStorageChecker("postgres", store, storageSlowThreshold),
			closeFn:        pg.Close,
		}, nil

	case StorageDriverRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis storage requires SHOP_REDIS_URL")
		}
		store, err := redis.Open(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		logger.WithField("prefix", cfg.RedisPrefix).Info("storage driver: redis")
		return &runtimeDependencies{
			store:          store,
			storageChecker: healthcheck.NewStorageChecker("redis", store, storageSlowThreshold),
			closeFn:        store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/config"
)

// Backend bundles the opened ticket slot with the connections behind it.
// Postgres is non-nil only for the postgres driver; the history repository
// uses it.
type Backend struct {
	Slot     Slot
	Postgres *Postgres
	Driver   string
}

// Close releases the slot and any connection it holds.
func (b *Backend) Close() error {
	if b == nil || b.Slot == nil {
		return nil
	}
	return b.Slot.Close()
}

// Open builds the slot backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	driver := cfg.Storage.Driver
	key := cfg.Storage.Key
	logger = logger.With(zap.String("storage_driver", driver))

	switch driver {
	case config.StorageMemory:
		logger.Warn("memory storage selected; tickets are lost on restart")
		return &Backend{Slot: NewMemorySlot(), Driver: driver}, nil

	case config.StorageFile:
		slot, err := NewFileSlot(cfg.Storage.FilePath)
		if err != nil {
			return nil, err
		}
		logger.Info("file storage ready", zap.String("path", cfg.Storage.FilePath))
		return &Backend{Slot: slot, Driver: driver}, nil

	case config.StorageSQLite:
		slot, err := NewSQLiteSlot(ctx, cfg.Storage.SQLitePath, key)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite storage ready", zap.String("path", cfg.Storage.SQLitePath))
		return &Backend{Slot: slot, Driver: driver}, nil

	case config.StorageRedis:
		r := NewRedis(cfg.Redis, logger)
		return &Backend{Slot: NewRedisSlot(r, key), Driver: driver}, nil

	case config.StoragePostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if pg.PoolHandle() == nil {
			return nil, fmt.Errorf("postgres storage requires POSTGRES_DSN")
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Backend{Slot: NewPostgresSlot(pg, key), Postgres: pg, Driver: driver}, nil
	}

	return nil, fmt.Errorf("unsupported storage driver %q", driver)
}

// Package bootstrap assembles the store and its storage backend from
// configuration. Both the API server and deskctl start through it.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/config"
	"github.com/spec-kit/report-desk/internal/persistence"
	"github.com/spec-kit/report-desk/internal/repository"
	"github.com/spec-kit/report-desk/internal/seed"
	"github.com/spec-kit/report-desk/internal/store"
)

// Storage is an opened backend plus the store loaded from it.
type Storage struct {
	Backend *persistence.Backend
	Store   *store.Store
	History repository.TicketHistoryRepository
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.Backend.Close()
}

// OpenStorage opens the configured slot, loads the collection and seeds the
// demo tickets when enabled and the slot was empty.
func OpenStorage(ctx context.Context, cfg *config.Config, c clock.Clock, logger *zap.Logger) (*Storage, error) {
	backend, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	st := store.New(store.Options{
		Slot:   backend.Slot,
		IDs:    store.NewGenerator(cfg.Tickets),
		Clock:  c,
		Logger: logger,
	})
	found, err := st.Load(ctx)
	if err != nil {
		backend.Close()
		return nil, err
	}

	if !found && cfg.Storage.SeedDemo {
		if err := SeedDemo(ctx, st, logger); err != nil {
			backend.Close()
			return nil, err
		}
	}

	var history repository.TicketHistoryRepository
	if backend.Postgres != nil {
		history = repository.NewTicketHistoryRepository(backend.Postgres.PoolHandle())
	} else {
		history = repository.NewMemoryTicketHistoryRepository()
	}

	return &Storage{Backend: backend, Store: st, History: history}, nil
}

// SeedDemo installs the bundled demo tickets into an empty store.
func SeedDemo(ctx context.Context, st *store.Store, logger *zap.Logger) error {
	tickets, err := seed.Demo()
	if err != nil {
		return err
	}
	seeded, err := st.Seed(ctx, tickets)
	if err != nil {
		return fmt.Errorf("seed demo tickets: %w", err)
	}
	if seeded {
		logger.Info("demo tickets seeded", zap.Int("count", len(tickets)))
	} else {
		logger.Info("store not empty; demo seed skipped")
	}
	return nil
}

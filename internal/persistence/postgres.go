package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/config"
	"github.com/spec-kit/report-desk/internal/domain"
)

// Postgres wraps access to a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool when DSN is provided.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; skipping database connection")
		return &Postgres{Pool: nil}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{Pool: pool}, nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}

// PostgresSlot keeps the collection as a JSONB value in the kv_slots table.
type PostgresSlot struct {
	pg  *Postgres
	key string
}

// NewPostgresSlot binds a slot to key. The kv_slots table comes from migrations.
func NewPostgresSlot(pg *Postgres, key string) *PostgresSlot {
	return &PostgresSlot{pg: pg, key: key}
}

func (s *PostgresSlot) Load(ctx context.Context) ([]domain.Ticket, bool, error) {
	const query = `SELECT value FROM kv_slots WHERE key=$1`
	var value []byte
	err := s.pg.Pool.QueryRow(ctx, query, s.key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres slot: load: %w", err)
	}
	tickets, err := decodeTickets(value)
	if err != nil {
		return nil, false, fmt.Errorf("postgres slot: %w", err)
	}
	return tickets, true, nil
}

func (s *PostgresSlot) Save(ctx context.Context, tickets []domain.Ticket) error {
	data, err := encodeTickets(tickets)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO kv_slots (key, value, updated_at)
        VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	if _, err := s.pg.Pool.Exec(ctx, query, s.key, string(data)); err != nil {
		return fmt.Errorf("postgres slot: save: %w", err)
	}
	return nil
}

func (s *PostgresSlot) Ping(ctx context.Context) error {
	return s.pg.Ping(ctx)
}

func (s *PostgresSlot) Close() error {
	s.pg.Close()
	return nil
}

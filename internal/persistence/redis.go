package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/config"
	"github.com/spec-kit/report-desk/internal/domain"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// RedisSlot stores the collection as one Redis string value.
type RedisSlot struct {
	redis *Redis
	key   string
}

// NewRedisSlot binds a slot to key on the given connection.
func NewRedisSlot(r *Redis, key string) *RedisSlot {
	return &RedisSlot{redis: r, key: key}
}

func (s *RedisSlot) Load(ctx context.Context) ([]domain.Ticket, bool, error) {
	data, err := s.redis.Client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis slot: get: %w", err)
	}
	tickets, err := decodeTickets(data)
	if err != nil {
		return nil, false, fmt.Errorf("redis slot: %w", err)
	}
	return tickets, true, nil
}

func (s *RedisSlot) Save(ctx context.Context, tickets []domain.Ticket) error {
	data, err := encodeTickets(tickets)
	if err != nil {
		return err
	}
	if err := s.redis.Client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis slot: set: %w", err)
	}
	return nil
}

func (s *RedisSlot) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx)
}

func (s *RedisSlot) Close() error {
	s.redis.Close()
	return nil
}

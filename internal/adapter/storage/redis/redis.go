package redis

import (
	"context"
	"fmt"

	"bank-ledger/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Key namespaces. Every key this service writes lives under "ledger:".
const (
	idempotencyPrefix = "ledger:idem:"
	inflightPrefix    = "ledger:inflight:"
	rateLimitPrefix   = "ledger:ratelimit:"
)

// NewClient connects to Redis and pings it once.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	opts := &goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.OpTimeout > 0 {
		opts.ReadTimeout = cfg.OpTimeout
		opts.WriteTimeout = cfg.OpTimeout
	}
	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Int("pool_size", opts.PoolSize).
		Dur("op_timeout", cfg.OpTimeout).
		Msg("Redis connection established")

	return client, nil
}

// HealthCheck reports Redis reachability for /health. Redis only backs
// idempotency and rate limiting, so "unhealthy" here means those features
// are degraded, not that the ledger is down.
type HealthCheck struct {
	client goredis.Cmdable
}

func NewHealthCheck(client goredis.Cmdable) *HealthCheck {
	return &HealthCheck{client: client}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

func (h *HealthCheck) Name() string {
	return "redis"
}

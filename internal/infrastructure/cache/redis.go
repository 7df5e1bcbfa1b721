package cache

import (
	"context"
	"log"
	"sync/atomic"

	"devjobs/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	StatusConnected     = "connected"
	StatusDisconnected  = "disconnected"
	StatusNotConfigured = "not_configured"
)

// Redis wraps the client used for health reporting. When no address is
// configured the wrapper degrades to a no-op instead of failing
// startup, matching how the rest of the system treats Redis as
// optional infrastructure.
type Redis struct {
	client *redis.Client
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

func New(cfg config.RedisConfig, logger *log.Logger) *Redis {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Addr == "" {
		return &Redis{logger: logger}
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		logger: logger,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// Status reports the connection state for the health endpoint.
func (r *Redis) Status(ctx context.Context) string {
	if r == nil || r.client == nil {
		return StatusNotConfigured
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return StatusDisconnected
	}
	return StatusConnected
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Printf("[Redis] unavailable, health reports disconnected: %v", err)
	}
}

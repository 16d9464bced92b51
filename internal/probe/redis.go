package probe

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"portwait/internal/domain"
)

// RedisProber succeeds once the server behind the URL answers PING.
type RedisProber struct{}

func NewRedisProber() *RedisProber {
	return &RedisProber{}
}

func (p *RedisProber) Probe(ctx context.Context, spec domain.EndpointSpec) error {
	opts, err := redis.ParseURL(spec.DSN)
	if err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = spec.ConnectTimeout
	opts.MaxRetries = -1 // single-shot, the wait loop owns retries

	client := redis.NewClient(opts)
	defer client.Close()

	return client.Ping(ctx).Err()
}

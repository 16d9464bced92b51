package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portwait/internal/domain"
)

func TestRedisProber_InvalidURL(t *testing.T) {
	prober := NewRedisProber()
	err := prober.Probe(context.Background(), domain.EndpointSpec{
		Kind:           domain.RedisEndpoint,
		Target:         "redis://:@:bad",
		DSN:            "redis://:@:bad",
		ConnectTimeout: time.Second,
	})
	assert.Error(t, err)
}

func TestRedisProber_ServerDown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	prober := NewRedisProber()
	err := prober.Probe(ctx, domain.EndpointSpec{
		Kind:           domain.RedisEndpoint,
		Target:         "redis://127.0.0.1:1",
		DSN:            "redis://127.0.0.1:1",
		ConnectTimeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
}

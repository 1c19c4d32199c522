package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/svgflat/internal/adapters/redis"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_TTL(t *testing.T) {
	mr, client := newClient(t)
	c := redis.NewFromClient(client, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k1", []byte("<svg/>")))
	assert.True(t, mr.Exists("test:k1"))

	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, keys)

	mr.FastForward(2 * time.Minute)

	_, err = c.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_KeysAfterDelete(t *testing.T) {
	_, client := newClient(t)
	c := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "a", []byte("1")))
	require.NoError(t, c.Put(ctx, "b", []byte("2")))
	require.NoError(t, c.Delete(ctx, "a"))

	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

package store

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedisStore(t *testing.T) (*RedisStore, func()) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	s := NewRedisStore(goredis.NewClient(opts))

	cleanup := func() {
		s.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return s, cleanup
}

func TestRedisStore_GetMissingKey(t *testing.T) {
	s, cleanup := setupRedisStore(t)
	defer cleanup()

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	s, cleanup := setupRedisStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, KeyAuthToken, "t1"))

	got, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", got)

	require.NoError(t, s.Set(ctx, KeyAuthToken, "t2"))
	got, err = s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "t2", got)

	require.NoError(t, s.Delete(ctx, KeyAuthToken))
	_, err = s.Get(ctx, KeyAuthToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

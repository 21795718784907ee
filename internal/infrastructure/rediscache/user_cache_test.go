package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-social/internal/domain/entity"
)

func newCache(t *testing.T) (*UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewUserCache(rdb, time.Minute), mr
}

func TestUserCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	u := &entity.User{ID: "u1", Email: "ana@x.com", FullName: "Ana", PasswordHash: "$2a$10$secret", IsOnboarded: true}
	require.NoError(t, cache.Set(ctx, u))

	raw, err := mr.Get(userKey("u1"))
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")
	assert.Equal(t, time.Minute, mr.TTL(userKey("u1")))

	got, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ana", got.FullName)
	assert.True(t, got.IsOnboarded)
	assert.Empty(t, got.PasswordHash)

	require.NoError(t, cache.Invalidate(ctx, "u1", "u2"))
	assert.False(t, mr.Exists(userKey("u1")))
}

func TestUserCache_ExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	require.NoError(t, cache.Set(ctx, &entity.User{ID: "u1"}))

	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserCache_BackendDown(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	mr.Close()

	_, _, err := cache.Get(ctx, "u1")
	assert.Error(t, err)
}

// Package rediscache caches resolved session users in Redis.
package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/pkg/helpers"
)

const keyPrefix = "user:profile:"

func userKey(id string) string {
	return keyPrefix + id
}

// UserCache stores users as JSON; the password hash never reaches Redis.
type UserCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewUserCache(rdb redis.Cmdable, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

func (c *UserCache) Get(ctx context.Context, id string) (*entity.User, bool, error) {
	var u entity.User
	found, err := helpers.RedisGetJSON(ctx, c.rdb, userKey(id), &u)
	if err != nil || !found {
		return nil, false, err
	}
	return &u, true, nil
}

func (c *UserCache) Set(ctx context.Context, u *entity.User) error {
	return helpers.RedisSetJSON(ctx, c.rdb, userKey(u.ID), u, c.ttl)
}

func (c *UserCache) Invalidate(ctx context.Context, ids ...string) error {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, userKey(id))
	}
	return helpers.RedisDel(ctx, c.rdb, keys...)
}

var _ application.UserCache = (*UserCache)(nil)

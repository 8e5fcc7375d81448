package httpmiddleware

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed one-minute window counter shared by every instance using the same redis.
type RedisLimiter struct {
	client    *redis.Client
	perMinute int
	prefix    string
	now       func() time.Time
}

func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		perMinute: perMinute,
		prefix:    "schoolms:ratelimit:",
		now:       time.Now,
	}
}

func (l *RedisLimiter) key(client string) string {
	window := l.now().Unix() / 60
	return l.prefix + client + ":" + strconv.FormatInt(window, 10)
}

func (l *RedisLimiter) Allow(ctx context.Context, client string) (bool, error) {
	key := l.key(client)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.perMinute), nil
}

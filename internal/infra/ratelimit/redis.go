package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "leads:ratelimit:"

// allowScript keeps the same fixed-window rules as MemoryLimiter: a rejected
// call leaves the counter untouched.
//
// KEYS[1] counter key, ARGV[1] limit, ARGV[2] window in ms.
var allowScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current then
	redis.call("SET", KEYS[1], 1, "PX", ARGV[2])
	return 1
end
if tonumber(current) >= tonumber(ARGV[1]) then
	return 0
end
redis.call("INCR", KEYS[1])
return 1
`)

// RedisLimiter shares counters between instances. Window expiry is driven by
// the key TTL, so the now argument is ignored.
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
}

func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

func (rl *RedisLimiter) Allow(ctx context.Context, identifier string, _ time.Time) (bool, error) {
	key := keyPrefix + identifier

	res, err := allowScript.Run(ctx, rl.rdb, []string{key}, rl.limit, rl.window.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return res == 1, nil
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

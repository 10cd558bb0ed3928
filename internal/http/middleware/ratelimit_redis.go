package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter window in Redis: the first hit sets the expiry, later hits only
// increment, so the window never slides.
const counterScript = `
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if hits > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const redisCallTimeout = 250 * time.Millisecond

// RedisLimiter shares rate-limit state across instances. Redis being down or
// slow must never take requests down with it, so every failure path allows.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{client: client, script: redis.NewScript(counterScript)}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil || key == "" {
		return true
	}
	if limit <= 0 || window < time.Millisecond {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()
	verdict, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key}, window.Milliseconds(), limit).Int64()
	if err != nil {
		return true
	}
	return verdict == 1
}

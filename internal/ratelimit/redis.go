package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares windows across instances. The first INCR in a window sets
// the expiry, so the key disappears when the window ends.
type Redis struct {
	client *redis.Client
	cfg    Config
	prefix string
}

func NewRedis(client *redis.Client, cfg Config, prefix string) *Redis {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Redis{client: client, cfg: cfg.normalize(), prefix: prefix}
}

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	k := r.prefix + ":" + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incr.Val())
	ttl := pttl.Val()
	// -1 means the key exists without an expiry: a fresh window.
	if count == 1 || ttl < 0 {
		if err := r.client.PExpire(ctx, k, r.cfg.Window).Err(); err != nil {
			return Decision{}, err
		}
		ttl = r.cfg.Window
	}

	if count > r.cfg.MaxCalls {
		return Decision{Allowed: false, Limit: r.cfg.MaxCalls, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Limit: r.cfg.MaxCalls, Remaining: r.cfg.MaxCalls - count}, nil
}

var (
	_ Limiter = (*Redis)(nil)
	_ Limiter = (*Memory)(nil)
)

// RetryAfterSeconds rounds up to whole seconds for the Retry-After header.
func RetryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

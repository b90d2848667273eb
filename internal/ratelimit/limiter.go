// Package ratelimit provides fixed-window call limiting keyed by endpoint.
// Limiter state lives in the limiter value the caller constructs and injects.
package ratelimit

import (
	"context"
	"time"
)

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type Config struct {
	MaxCalls int
	Window   time.Duration
}

// DefaultConfig allows 100 calls per minute per key.
func DefaultConfig() Config {
	return Config{MaxCalls: 100, Window: time.Minute}
}

func (c Config) normalize() Config {
	if c.MaxCalls < 1 {
		c.MaxCalls = 1
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	return c
}

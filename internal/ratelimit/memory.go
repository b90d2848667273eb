package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Window is the per-key counter state.
type Window struct {
	Count int
	Start time.Time
}

// Memory is an in-process limiter. Expired windows are dropped lazily.
type Memory struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	windows map[string]*Window
}

func NewMemory(cfg Config) *Memory {
	return &Memory{cfg: cfg.normalize(), now: time.Now, windows: make(map[string]*Window)}
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || now.Sub(w.Start) > m.cfg.Window {
		m.windows[key] = &Window{Count: 1, Start: now}
		m.sweep(now)
		return Decision{Allowed: true, Limit: m.cfg.MaxCalls, Remaining: m.cfg.MaxCalls - 1}, nil
	}
	if w.Count >= m.cfg.MaxCalls {
		return Decision{
			Allowed:    false,
			Limit:      m.cfg.MaxCalls,
			RetryAfter: w.Start.Add(m.cfg.Window).Sub(now),
		}, nil
	}
	w.Count++
	return Decision{Allowed: true, Limit: m.cfg.MaxCalls, Remaining: m.cfg.MaxCalls - w.Count}, nil
}

// Snapshot returns a copy of the window for key.
func (m *Memory) Snapshot(key string) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[key]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

func (m *Memory) sweep(now time.Time) {
	if len(m.windows) < 1024 {
		return
	}
	for k, w := range m.windows {
		if now.Sub(w.Start) > m.cfg.Window {
			delete(m.windows, k)
		}
	}
}

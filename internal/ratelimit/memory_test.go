package ratelimit

import (
	"context"
	"testing"
	"time"
)

func newTestMemory(max int, window time.Duration) (*Memory, *time.Time) {
	m := NewMemory(Config{MaxCalls: max, Window: window})
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestMemory_DeniesAfterMaxCalls(t *testing.T) {
	m, _ := newTestMemory(3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := m.Allow(ctx, "geolocation")
		if err != nil || !d.Allowed {
			t.Fatalf("call %d should be allowed: %+v %v", i, d, err)
		}
		if d.Remaining != 3-i {
			t.Errorf("call %d remaining = %d, want %d", i, d.Remaining, 3-i)
		}
	}
	d, _ := m.Allow(ctx, "geolocation")
	if d.Allowed {
		t.Fatal("4th call should be denied")
	}
	if d.RetryAfter != time.Minute {
		t.Errorf("retryAfter = %s, want 1m", d.RetryAfter)
	}
}

func TestMemory_WindowResets(t *testing.T) {
	m, now := newTestMemory(1, time.Minute)
	ctx := context.Background()

	if d, _ := m.Allow(ctx, "k"); !d.Allowed {
		t.Fatal("first call denied")
	}
	*now = now.Add(30 * time.Second)
	if d, _ := m.Allow(ctx, "k"); d.Allowed {
		t.Fatal("second call inside window allowed")
	}
	*now = now.Add(31 * time.Second)
	d, _ := m.Allow(ctx, "k")
	if !d.Allowed {
		t.Fatal("call after window should reset and be allowed")
	}
	w, ok := m.Snapshot("k")
	if !ok || w.Count != 1 || !w.Start.Equal(*now) {
		t.Errorf("window after reset = %+v", w)
	}
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	m, _ := newTestMemory(1, time.Minute)
	ctx := context.Background()

	if d, _ := m.Allow(ctx, "bookings:1.2.3.4"); !d.Allowed {
		t.Fatal("first key denied")
	}
	if d, _ := m.Allow(ctx, "geolocation:1.2.3.4"); !d.Allowed {
		t.Fatal("second key should have its own window")
	}
	if d, _ := m.Allow(ctx, "bookings:1.2.3.4"); d.Allowed {
		t.Fatal("first key should now be exhausted")
	}
}

func TestMemory_InstancesDoNotShareState(t *testing.T) {
	a, _ := newTestMemory(1, time.Minute)
	b, _ := newTestMemory(1, time.Minute)
	ctx := context.Background()

	_, _ = a.Allow(ctx, "k")
	if d, _ := b.Allow(ctx, "k"); !d.Allowed {
		t.Fatal("limiters must not share a global counter")
	}
}

func TestConfigNormalize(t *testing.T) {
	c := Config{}.normalize()
	if c.MaxCalls != 1 || c.Window != time.Minute {
		t.Errorf("normalize = %+v", c)
	}
	if d := DefaultConfig(); d.MaxCalls != 100 || d.Window != time.Minute {
		t.Errorf("default = %+v", d)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{-time.Second, 0},
		{time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
	}
	for _, tc := range cases {
		if got := RetryAfterSeconds(tc.in); got != tc.want {
			t.Errorf("RetryAfterSeconds(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

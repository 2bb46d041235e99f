package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLimiter(start time.Time) (*Limiter, *time.Time) {
	clock := start
	l := New(NewMemoryStore(), DefaultConfig()).WithClock(func() time.Time { return clock })
	return l, &clock
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := testLimiter(time.Now())

	for i := 0; i < 5; i++ {
		res := l.Allow(ClassAuth, "10.0.0.1")
		assert.True(t, res.Allowed, "request %d should pass", i+1)
	}
}

func TestRejectsOverLimitWithRetryAfter(t *testing.T) {
	start := time.Now()
	l, clock := testLimiter(start)

	for i := 0; i < 5; i++ {
		l.Allow(ClassAuth, "10.0.0.1")
	}
	*clock = start.Add(1 * time.Minute)

	res := l.Allow(ClassAuth, "10.0.0.1")
	assert.False(t, res.Allowed)
	assert.Equal(t, 14*time.Minute, res.RetryAfter)
	assert.LessOrEqual(t, res.RetryAfter, 15*time.Minute)
}

func TestWindowExpiryResetsCounter(t *testing.T) {
	start := time.Now()
	l, clock := testLimiter(start)

	for i := 0; i < 6; i++ {
		l.Allow(ClassAuth, "10.0.0.1")
	}
	*clock = start.Add(15*time.Minute + time.Second)

	res := l.Allow(ClassAuth, "10.0.0.1")
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := testLimiter(time.Now())

	for i := 0; i < 5; i++ {
		l.Allow(ClassAuth, "10.0.0.1")
	}
	assert.False(t, l.Allow(ClassAuth, "10.0.0.1").Allowed)
	assert.True(t, l.Allow(ClassAuth, "10.0.0.2").Allowed, "other IPs unaffected")
	assert.True(t, l.Allow(ClassCart, "10.0.0.1").Allowed, "other route classes unaffected")
}

func TestSweepDropsExpiredEntries(t *testing.T) {
	start := time.Now()
	store := NewMemoryStore()
	l := New(store, DefaultConfig())
	clock := start
	l.WithClock(func() time.Time { return clock })

	l.Allow(ClassCart, "10.0.0.1")
	l.Allow(ClassCart, "10.0.0.2")
	assert.Len(t, store.Keys(), 2)

	clock = start.Add(2 * time.Minute)
	l.Allow(ClassCart, "10.0.0.3")
	assert.Len(t, store.Keys(), 1, "expired windows swept on invocation")
}

func TestUnknownClassFallsBackToAPI(t *testing.T) {
	l, _ := testLimiter(time.Now())
	res := l.Allow("no-such-class", "10.0.0.1")
	assert.True(t, res.Allowed)
	assert.Equal(t, 99, res.Remaining)
}

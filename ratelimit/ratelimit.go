// Package ratelimit implements fixed-window request counting keyed by
// (client IP, route class). Counter state lives behind the Store
// interface so a single-instance in-memory map and a shared store are
// interchangeable.
package ratelimit

import (
	"sync"
	"time"
)

// Route classes.
const (
	ClassAuth     = "auth"
	ClassCart     = "cart"
	ClassCheckout = "checkout"
	ClassAPI      = "api"
)

type Rule struct {
	Limit  int
	Window time.Duration
}

type Config map[string]Rule

// DefaultConfig is the single authoritative limit table.
func DefaultConfig() Config {
	return Config{
		ClassAuth:     {Limit: 5, Window: 15 * time.Minute},
		ClassCart:     {Limit: 30, Window: time.Minute},
		ClassCheckout: {Limit: 5, Window: 15 * time.Minute},
		ClassAPI:      {Limit: 100, Window: time.Minute},
	}
}

type Window struct {
	Count   int
	ResetAt time.Time
}

type Store interface {
	Get(key string) (Window, bool)
	Set(key string, w Window)
	Delete(key string)
	Keys() []string
}

// MemoryStore is the single-instance implementation. A multi-instance
// deployment needs a shared store behind the same interface.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

func (m *MemoryStore) Get(key string) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[key]
	return w, ok
}

func (m *MemoryStore) Set(key string, w Window) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[key] = w
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, key)
}

func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.windows))
	for k := range m.windows {
		keys = append(keys, k)
	}
	return keys
}

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func New(store Store, cfg Config) *Limiter {
	return &Limiter{store: store, cfg: cfg, now: time.Now}
}

// WithClock overrides the limiter's time source (used in tests).
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records one request for the given route class and client IP and
// reports whether it fits in the current window. On rejection RetryAfter
// carries the remaining window time; the counter is not decremented.
func (l *Limiter) Allow(class, ip string) Result {
	rule, ok := l.cfg[class]
	if !ok {
		rule = l.cfg[ClassAPI]
	}
	now := l.now()
	l.sweep(now)

	key := class + ":" + ip
	w, exists := l.store.Get(key)
	if !exists || !now.Before(w.ResetAt) {
		// New window starts from the triggering request.
		l.store.Set(key, Window{Count: 1, ResetAt: now.Add(rule.Window)})
		return Result{Allowed: true, Remaining: rule.Limit - 1}
	}

	if w.Count >= rule.Limit {
		return Result{Allowed: false, RetryAfter: w.ResetAt.Sub(now)}
	}

	w.Count++
	l.store.Set(key, w)
	return Result{Allowed: true, Remaining: rule.Limit - w.Count}
}

// sweep drops expired windows. Runs opportunistically on each Allow; there
// is no background timer.
func (l *Limiter) sweep(now time.Time) {
	for _, key := range l.store.Keys() {
		if w, ok := l.store.Get(key); ok && !now.Before(w.ResetAt) {
			l.store.Delete(key)
		}
	}
}

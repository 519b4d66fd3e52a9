// Package circuit provides a consecutive-failure circuit breaker for outbound
// calls.
package circuit

import (
	"sync"
	"time"
)

const (
	DefaultThreshold = 5
	DefaultCooldown  = 30 * time.Second
)

// Breaker opens after threshold consecutive failures and rejects calls until
// the cooldown elapses. The first call after the cooldown is let through; its
// result closes the circuit again or re-opens it for another cooldown.
type Breaker struct {
	mu sync.Mutex

	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	failures  int
	openUntil time.Time
	open      bool
	probing   bool
}

type Option func(*Breaker)

func WithThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:      name,
		threshold: DefaultThreshold,
		cooldown:  DefaultCooldown,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

// Allow reports whether a call may proceed. While half-open only one probe
// is admitted at a time.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return true
	}
	if b.probing || b.now().Before(b.openUntil) {
		return false
	}
	b.probing = true
	return true
}

// RecordSuccess closes the circuit and resets the failure count.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.open = false
	b.probing = false
}

// RecordFailure counts a failure and reports whether this call opened the
// circuit. A failed probe re-opens it immediately.
func (b *Breaker) RecordFailure() (opened bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.probing || (!b.open && b.failures >= b.threshold) {
		wasOpen := b.open
		b.open = true
		b.probing = false
		b.openUntil = b.now().Add(b.cooldown)
		return !wasOpen
	}
	return false
}

func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

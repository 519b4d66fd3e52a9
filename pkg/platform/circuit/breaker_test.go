package circuit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestBreaker_InitialState(t *testing.T) {
	b := New("lookup")
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
	assert.Equal(t, "lookup", b.Name())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("lookup", WithThreshold(3))

	// First two failures don't open
	assert.False(t, b.RecordFailure())
	assert.False(t, b.RecordFailure())
	assert.True(t, b.Allow())

	// Third failure opens the circuit
	assert.True(t, b.RecordFailure())
	assert.True(t, b.IsOpen())
	assert.False(t, b.Allow())

	// Further failures do not report a new transition
	assert.False(t, b.RecordFailure())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("lookup", WithThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()

	// Two more failures don't open (count was reset)
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	clock := newClock()
	b := New("lookup", WithThreshold(1), WithCooldown(10*time.Second), WithClock(clock.Now))

	b.RecordFailure()
	assert.False(t, b.Allow())

	clock.Advance(9 * time.Second)
	assert.False(t, b.Allow(), "still cooling down")

	clock.Advance(2 * time.Second)
	assert.True(t, b.Allow(), "first call after cooldown probes")
	assert.False(t, b.Allow(), "only one probe at a time")

	b.RecordSuccess()
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	clock := newClock()
	b := New("lookup", WithThreshold(2), WithCooldown(time.Second), WithClock(clock.Now))

	b.RecordFailure()
	b.RecordFailure()
	clock.Advance(2 * time.Second)
	assert.True(t, b.Allow())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
	assert.False(t, b.Allow())

	clock.Advance(2 * time.Second)
	assert.True(t, b.Allow())
}

func TestBreaker_ConcurrentProbeAdmitsOne(t *testing.T) {
	clock := newClock()
	b := New("lookup", WithThreshold(1), WithCooldown(time.Second), WithClock(clock.Now))
	b.RecordFailure()
	clock.Advance(2 * time.Second)

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Allow() {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), admitted.Load())
}

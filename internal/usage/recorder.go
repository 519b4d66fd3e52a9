package usage

import (
	"context"
	"sync/atomic"

	"bankqr/internal/usage/metrics"
	"bankqr/pkg/requestcontext"
)

// DefaultBuffer is the queue size used when NewRecorder gets a non-positive size.
const DefaultBuffer = 1024

// Recorder queues usage events for a Worker. Record never blocks: when the
// queue is full the event is dropped and counted.
type Recorder struct {
	events  chan Event
	dropped atomic.Int64
	metrics *metrics.Metrics
}

type RecorderOption func(*Recorder)

func WithRecorderMetrics(m *metrics.Metrics) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func NewRecorder(buffer int, opts ...RecorderOption) *Recorder {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	r := &Recorder{events: make(chan Event, buffer)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stamps the event with the request-scoped time so every counter
// touched by one request lands on the same day.
func (r *Recorder) Record(ctx context.Context, label string) {
	now := requestcontext.Now(ctx)
	event := Event{Day: Day(now), Label: label, At: now}
	select {
	case r.events <- event:
	default:
		r.dropped.Add(1)
		r.metrics.IncrementDropped()
	}
}

// Events is the queue a Worker drains.
func (r *Recorder) Events() <-chan Event {
	return r.events
}

// Dropped reports how many events were discarded because the queue was full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

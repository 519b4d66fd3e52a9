package usage

import (
	"context"
	"log/slog"

	"bankqr/internal/usage/metrics"
)

// Worker consumes usage events and persists them. Store failures are logged
// and the event is lost; counters are best effort.
type Worker struct {
	store     Store
	inbox     <-chan Event
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type WorkerOption func(*Worker)

func WithPublisher(p Publisher) WorkerOption {
	return func(w *Worker) {
		w.publisher = p
	}
}

func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithWorkerMetrics(m *metrics.Metrics) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

func NewWorker(store Store, inbox <-chan Event, opts ...WorkerOption) *Worker {
	w := &Worker{store: store, inbox: inbox, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled or the inbox is closed. Events already
// queued at cancellation are flushed before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.inbox:
			if !ok {
				return
			}
			w.handle(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) handle(ctx context.Context, event Event) {
	if err := w.store.Increment(ctx, event.Day, event.Label); err != nil {
		w.metrics.IncrementStoreFailure()
		w.logger.ErrorContext(ctx, "failed to persist usage event",
			"day", event.Day,
			"label", event.Label,
			"error", err,
		)
	} else {
		w.metrics.IncrementPersisted(event.Label)
	}
	if w.publisher != nil {
		w.publisher.Publish(ctx, event)
	}
}

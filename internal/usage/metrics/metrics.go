package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the usage pipeline.
type Metrics struct {
	Persisted     *prometheus.CounterVec
	Dropped       prometheus.Counter
	StoreFailures prometheus.Counter
	PublishErrors prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Persisted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankqr_usage_events_persisted_total",
			Help: "Usage events written to the daily counter store, by label",
		}, []string{"label"}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "bankqr_usage_events_dropped_total",
			Help: "Usage events discarded because the recorder queue was full",
		}),
		StoreFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "bankqr_usage_store_failures_total",
			Help: "Usage events the counter store failed to persist",
		}),
		PublishErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "bankqr_usage_publish_errors_total",
			Help: "Usage events the stream publisher failed to deliver",
		}),
	}
}

func (m *Metrics) IncrementPersisted(label string) {
	if m != nil {
		m.Persisted.WithLabelValues(label).Inc()
	}
}

func (m *Metrics) IncrementDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) IncrementStoreFailure() {
	if m != nil {
		m.StoreFailures.Inc()
	}
}

func (m *Metrics) IncrementPublishError() {
	if m != nil {
		m.PublishErrors.Inc()
	}
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for account-name resolution.
type Metrics struct {
	// Resolution outcomes by winning tier ("Error" for rejected input)
	Outcomes *prometheus.CounterVec

	// Latency of each tier attempt, successful or not
	TierLatency *prometheus.HistogramVec

	// Soft failures by tier and error category
	SoftFailures *prometheus.CounterVec

	// Overall resolution latency
	ResolveLatency prometheus.Histogram
}

// New registers the verification metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankqr_verification_outcomes_total",
			Help: "Total account-name resolutions by winning tier",
		}, []string{"tier"}),

		TierLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bankqr_verification_tier_duration_seconds",
			Help:    "Duration of a single tier attempt",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"tier"}),

		SoftFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankqr_verification_soft_failures_total",
			Help: "Tier attempts that failed and fell through to the next tier",
		}, []string{"tier", "category"}),

		ResolveLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankqr_verification_resolve_duration_seconds",
			Help:    "Duration of a full resolution across all attempted tiers",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncrementOutcome(tier string) {
	if m != nil {
		m.Outcomes.WithLabelValues(tier).Inc()
	}
}

func (m *Metrics) ObserveTierLatency(tier string, d time.Duration) {
	if m != nil {
		m.TierLatency.WithLabelValues(tier).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementSoftFailure(tier, category string) {
	if m != nil {
		m.SoftFailures.WithLabelValues(tier, category).Inc()
	}
}

func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}

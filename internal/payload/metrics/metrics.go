package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for payload encoding.
type Metrics struct {
	Encoded        *prometheus.CounterVec
	EncodeFailures *prometheus.CounterVec
}

// New creates payload metrics registered on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Encoded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankqr_payloads_encoded_total",
			Help: "Total payloads encoded by amount mode",
		}, []string{"mode"}), // mode: "fixed", "open"

		EncodeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankqr_payload_encode_failures_total",
			Help: "Total payload encodings rejected by reason",
		}, []string{"reason"}),
	}
}

// IncrementEncoded records a successful encoding.
func (m *Metrics) IncrementEncoded(withAmount bool) {
	if m == nil {
		return
	}
	mode := "open"
	if withAmount {
		mode = "fixed"
	}
	m.Encoded.WithLabelValues(mode).Inc()
}

// IncrementEncodeFailure records a rejected encoding.
func (m *Metrics) IncrementEncodeFailure(reason string) {
	if m != nil {
		m.EncodeFailures.WithLabelValues(reason).Inc()
	}
}

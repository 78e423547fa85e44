package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the PIN policy module.
type Metrics struct {
	// Verdicts by strength
	Verdicts *prometheus.CounterVec

	// Weak reasons by wire code
	Reasons *prometheus.CounterVec

	// Structural detector hits by detector name
	DetectorHits *prometheus.CounterVec

	// Single PIN evaluation latency
	EvaluateLatency prometheus.Histogram

	// Items per batch request
	BatchSize prometheus.Histogram
}

// New creates a Metrics instance registered with reg, or the default
// registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pinguard_pin_verdicts_total",
			Help: "Total PIN classifications by strength",
		}, []string{"strength"}),

		Reasons: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pinguard_pin_weak_reasons_total",
			Help: "Total weak reasons reported by code",
		}, []string{"reason"}),

		DetectorHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pinguard_pin_detector_hits_total",
			Help: "Total structural detector hits by detector",
		}, []string{"detector"}), // sequence, repetition, palindrome, keypad

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pinguard_pin_evaluate_duration_seconds",
			Help:    "Duration of a single PIN evaluation including audit",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pinguard_pin_batch_size",
			Help:    "Number of PINs per batch request",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
	}
}

// IncrementVerdict records a classification outcome.
func (m *Metrics) IncrementVerdict(strength string) {
	if m != nil {
		m.Verdicts.WithLabelValues(strength).Inc()
	}
}

// IncrementReasons records each weak reason.
func (m *Metrics) IncrementReasons(codes []string) {
	if m != nil {
		for _, code := range codes {
			m.Reasons.WithLabelValues(code).Inc()
		}
	}
}

// IncrementDetectorHits records each structural detector that fired.
func (m *Metrics) IncrementDetectorHits(detectors []string) {
	if m != nil {
		for _, d := range detectors {
			m.DetectorHits.WithLabelValues(d).Inc()
		}
	}
}

// ObserveEvaluateLatency records the duration of one evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveBatchSize records the number of items in a batch.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}

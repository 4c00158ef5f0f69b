package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ReferralMetrics records reward computations and accrual outcomes.
type ReferralMetrics struct {
	computations  *prometheus.CounterVec
	pointsAwarded *prometheus.CounterVec
	accruals      *prometheus.CounterVec
}

var (
	referralMetricsOnce sync.Once
	referralRegistry    *ReferralMetrics
)

// Metrics returns the lazily-initialised referral metrics registry.
func Metrics() *ReferralMetrics {
	referralMetricsOnce.Do(func() {
		referralRegistry = &ReferralMetrics{
			computations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "spaloyalty",
				Subsystem: "referral",
				Name:      "computations_total",
				Help:      "Total reward computations segmented by event type and outcome.",
			}, []string{"event_type", "outcome"}),
			pointsAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "spaloyalty",
				Subsystem: "referral",
				Name:      "points_awarded_total",
				Help:      "Total points awarded segmented by event type and recipient role.",
			}, []string{"event_type", "role"}),
			accruals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "spaloyalty",
				Subsystem: "ledger",
				Name:      "accruals_total",
				Help:      "Total accrual attempts segmented by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			referralRegistry.computations,
			referralRegistry.pointsAwarded,
			referralRegistry.accruals,
		)
	})
	return referralRegistry
}

// ObserveComputation records a completed reward computation.
func (m *ReferralMetrics) ObserveComputation(eventType, outcome string) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(eventType, outcome).Inc()
}

// ObservePoints records the points produced by a computation.
func (m *ReferralMetrics) ObservePoints(eventType string, referrerPoints, referredPoints int) {
	if m == nil {
		return
	}
	m.pointsAwarded.WithLabelValues(eventType, "referrer").Add(float64(referrerPoints))
	m.pointsAwarded.WithLabelValues(eventType, "referred").Add(float64(referredPoints))
}

// ObserveAccrual records the outcome of a ledger write, "applied" or
// "duplicate".
func (m *ReferralMetrics) ObserveAccrual(outcome string) {
	if m == nil {
		return
	}
	m.accruals.WithLabelValues(outcome).Inc()
}

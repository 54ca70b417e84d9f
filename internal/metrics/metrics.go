// Package metrics exposes Prometheus instrumentation for containers and
// breakpoint evaluators. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the relsize collectors.
type Metrics struct {
	// Container side
	NotificationsTotal prometheus.Counter
	DispatchesTotal    prometheus.Counter
	Listeners          prometheus.Gauge
	Subscriptions      prometheus.Gauge

	// Evaluator side
	EvaluationsTotal *prometheus.CounterVec
}

// New creates and registers the collectors on reg.
//
// Metrics:
//   - relsize_notifications_total - resize entries relayed by containers
//   - relsize_dispatches_total - listener invocations
//   - relsize_listeners - currently registered listeners
//   - relsize_subscriptions - live resize subscriptions (one per attached container)
//   - relsize_evaluations_total{result} - evaluations, "published" or "suppressed"
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		NotificationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "relsize_notifications_total",
			Help: "Total number of resize entries relayed by containers",
		}),
		DispatchesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "relsize_dispatches_total",
			Help: "Total number of listener invocations",
		}),
		Listeners: f.NewGauge(prometheus.GaugeOpts{
			Name: "relsize_listeners",
			Help: "Number of listeners currently registered on containers",
		}),
		Subscriptions: f.NewGauge(prometheus.GaugeOpts{
			Name: "relsize_subscriptions",
			Help: "Number of live resize subscriptions",
		}),
		EvaluationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relsize_evaluations_total",
			Help: "Total number of breakpoint evaluations by result",
		}, []string{"result"}),
	}
}

// Notification records one relayed resize entry fanned out to n listeners.
func (m *Metrics) Notification(n int) {
	if m == nil {
		return
	}
	m.NotificationsTotal.Inc()
	m.DispatchesTotal.Add(float64(n))
}

// ListenerAdded records a new registration.
func (m *Metrics) ListenerAdded() {
	if m == nil {
		return
	}
	m.Listeners.Inc()
}

// ListenersRemoved records n deregistrations.
func (m *Metrics) ListenersRemoved(n int) {
	if m == nil || n == 0 {
		return
	}
	m.Listeners.Sub(float64(n))
}

// SubscriptionOpened records an attached container.
func (m *Metrics) SubscriptionOpened() {
	if m == nil {
		return
	}
	m.Subscriptions.Inc()
}

// SubscriptionClosed records a released container subscription.
func (m *Metrics) SubscriptionClosed() {
	if m == nil {
		return
	}
	m.Subscriptions.Dec()
}

// Evaluation records a breakpoint evaluation outcome.
func (m *Metrics) Evaluation(published bool) {
	if m == nil {
		return
	}
	result := "suppressed"
	if published {
		result = "published"
	}
	m.EvaluationsTotal.WithLabelValues(result).Inc()
}

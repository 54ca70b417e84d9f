package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counts(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SubscriptionOpened()
	m.ListenerAdded()
	m.ListenerAdded()
	m.Notification(2)
	m.Evaluation(true)
	m.Evaluation(false)
	m.Evaluation(false)
	m.ListenersRemoved(1)

	if got := testutil.ToFloat64(m.Subscriptions); got != 1 {
		t.Errorf("subscriptions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Listeners); got != 1 {
		t.Errorf("listeners = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DispatchesTotal); got != 2 {
		t.Errorf("dispatches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("suppressed")); got != 2 {
		t.Errorf("suppressed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("published")); got != 1 {
		t.Errorf("published = %v, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Notification(3)
	m.ListenerAdded()
	m.ListenersRemoved(1)
	m.SubscriptionOpened()
	m.SubscriptionClosed()
	m.Evaluation(true)
}

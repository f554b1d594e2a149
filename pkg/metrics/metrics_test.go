package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/v1/orders", "200", 25*time.Millisecond)
	m.Observe("GET", "/v1/orders", "200", 30*time.Millisecond)
	m.Observe("", "", "", time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/orders", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("unknown", "unknown", "unknown")); got != 1 {
		t.Fatalf("expected 1 unknown request, got %v", got)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", "200", time.Second)

	unregistered := NewHTTPMetrics(nil)
	unregistered.Observe("GET", "/", "200", time.Second)
}

func TestPublisherMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPublisherMetrics(reg)

	m.ObserveDuration("order.created", 10*time.Millisecond)
	m.IncSuccess("order.created")
	m.IncSuccess("order.created")
	m.IncFailure("order.status_changed")

	if got := testutil.ToFloat64(m.success.WithLabelValues("order.created")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("order.status_changed")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestPublisherMetricsNilSafe(t *testing.T) {
	var m *PublisherMetrics
	m.ObserveDuration("order.created", time.Second)
	m.IncSuccess("order.created")
	m.IncFailure("order.created")
}

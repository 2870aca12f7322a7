package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRequestCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/catalog/products", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/catalog/products", 200, 30*time.Millisecond)
	m.ObserveRequest("POST", "", 404, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var requests *dto.MetricFamily
	for _, family := range families {
		if family.GetName() == "http_requests_total" {
			requests = family
		}
	}
	if requests == nil {
		t.Fatal("http_requests_total not registered")
	}

	byRoute := map[string]float64{}
	for _, metric := range requests.GetMetric() {
		var route string
		for _, label := range metric.GetLabel() {
			if label.GetName() == "route" {
				route = label.GetValue()
			}
		}
		byRoute[route] = metric.GetCounter().GetValue()
	}

	if byRoute["/api/v1/catalog/products"] != 2 {
		t.Fatalf("expected 2 catalog requests, got %v", byRoute["/api/v1/catalog/products"])
	}
	if byRoute["unmatched"] != 1 {
		t.Fatalf("expected unmatched route bucket, got %v", byRoute["unmatched"])
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/", 200, time.Millisecond)
}

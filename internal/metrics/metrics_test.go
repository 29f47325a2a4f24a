package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSectionDegraded(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry(), false)
	m.RecordSectionDegraded("signage", "missing_relation")
	m.RecordSectionDegraded("signage", "missing_relation")
	m.RecordSectionDegraded("contents", "")

	if got := testutil.ToFloat64(m.storeHubDegraded.WithLabelValues("signage", "missing_relation")); got != 2 {
		t.Fatalf("signage degraded want 2 got %v", got)
	}
	if got := testutil.ToFloat64(m.storeHubDegraded.WithLabelValues("contents", "unknown")); got != 1 {
		t.Fatalf("empty reason should map to unknown, got %v", got)
	}
}

func TestRecordComputationAndFee(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry(), false)
	m.RecordComputation(KindVendorCommission, ResultSuccess)
	m.RecordFeeCalculation(ResultRejected)

	if got := testutil.ToFloat64(m.commissionComputations.WithLabelValues(KindVendorCommission, ResultSuccess)); got != 1 {
		t.Fatalf("computations want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.feeCalculations.WithLabelValues(ResultRejected)); got != 1 {
		t.Fatalf("fee calculations want 1 got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordFeeCalculation(ResultSuccess)
	m.RecordComputation(KindSupplierSettlement, ResultError)
	m.RecordSectionDegraded("products", "timeout")
	m.ObserveHTTPRequest("GET", "/healthz", 200, time.Millisecond)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry(), false)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/store-hub/overview", http.StatusOK, 20*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `http_request_duration_seconds_count{method="GET",route="/api/v1/store-hub/overview",status="200"} 1`) {
		t.Fatalf("metrics output missing request histogram: %s", w.Body.String())
	}
}

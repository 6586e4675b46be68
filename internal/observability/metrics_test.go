package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/x", 200, time.Millisecond)
	m.ObserveOp("assignment.create", "ok", time.Millisecond)
	m.AddSnapshotRows("item_progress", 3)
	m.IncInflight()
	m.DecInflight()
	if m.Registry() != nil {
		t.Fatal("nil metrics returned a registry")
	}
}

func TestMetricsCountAndExpose(t *testing.T) {
	m := NewMetrics()
	m.ObserveOp("content.edit", "unsafe_item_deletion", 5*time.Millisecond)
	m.ObserveOp("content.edit", "ok", 5*time.Millisecond)
	m.AddReconcileItems("inserted", 2)
	m.AddReconcileItems("deleted", 0)

	if got := testutil.ToFloat64(m.opTotal.WithLabelValues("content.edit", "ok")); got != 1 {
		t.Fatalf("opTotal ok: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.reconcileItem.WithLabelValues("inserted")); got != 2 {
		t.Fatalf("reconcile inserted: got=%v want=2", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), "speakwell_core_operations_total") {
		t.Fatalf("metrics endpoint: code=%d", rec.Code)
	}
}

func TestParseHeaders(t *testing.T) {
	h := ParseHeaders(" a=1, b = 2 ,bad,=x")
	if len(h) != 2 || h["a"] != "1" || h["b"] != "2" {
		t.Fatalf("ParseHeaders: got=%v", h)
	}
	if ParseHeaders("") != nil {
		t.Fatal("empty headers should be nil")
	}
}

package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver so callers never branch on METRICS_ENABLED.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	httpInflight prometheus.Gauge

	opDuration *prometheus.HistogramVec
	opTotal    *prometheus.CounterVec

	snapshotRows  *prometheus.CounterVec
	reconcileItem *prometheus.CounterVec
	teardownRows  *prometheus.CounterVec
	txRetries     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakwell",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "speakwell",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "speakwell",
			Name:      "http_requests_inflight",
			Help:      "Requests currently being served.",
		}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "speakwell",
			Name:      "core_operation_duration_seconds",
			Help:      "Duration of assignment create, content edit and teardown transactions.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"op"}),
		opTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakwell",
			Name:      "core_operations_total",
			Help:      "Core operations by op and outcome code.",
		}, []string{"op", "outcome"}),
		snapshotRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakwell",
			Name:      "snapshot_rows_total",
			Help:      "Rows written by assignment snapshots, per table.",
		}, []string{"table"}),
		reconcileItem: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakwell",
			Name:      "reconcile_items_total",
			Help:      "Items handled by content edits, per action.",
		}, []string{"action"}),
		teardownRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakwell",
			Name:      "teardown_rows_total",
			Help:      "Rows hard-deleted by assignment teardown, per table.",
		}, []string{"table"}),
		txRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakwell",
			Name:      "tx_retries_total",
			Help:      "Write transactions retried after a transient store error, per op.",
		}, []string{"op"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.httpInflight,
		m.opDuration,
		m.opTotal,
		m.snapshotRows,
		m.reconcileItem,
		m.teardownRows,
		m.txRetries,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) IncInflight() {
	if m == nil {
		return
	}
	m.httpInflight.Inc()
}

func (m *Metrics) DecInflight() {
	if m == nil {
		return
	}
	m.httpInflight.Dec()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

// ObserveOp records one core operation. outcome is "ok" or an error code.
func (m *Metrics) ObserveOp(op, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.opTotal.WithLabelValues(op, outcome).Inc()
	m.opDuration.WithLabelValues(op).Observe(dur.Seconds())
}

func (m *Metrics) AddSnapshotRows(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.snapshotRows.WithLabelValues(table).Add(float64(n))
}

func (m *Metrics) AddReconcileItems(action string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconcileItem.WithLabelValues(action).Add(float64(n))
}

func (m *Metrics) AddTeardownRows(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.teardownRows.WithLabelValues(table).Add(float64(n))
}

func (m *Metrics) IncTxRetry(op string) {
	if m == nil {
		return
	}
	m.txRetries.WithLabelValues(op).Inc()
}

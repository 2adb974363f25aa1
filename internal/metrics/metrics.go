package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Ledger Metrics
	TransactionsCreated  prometheus.Counter
	PaymentsProcessed    *prometheus.CounterVec
	PaymentAmount        prometheus.Counter
	ExtensionsProcessed  *prometheus.CounterVec
	StatusChanges        *prometheus.CounterVec
	Reversals            *prometheus.CounterVec
	OperationErrors      *prometheus.CounterVec
	BalanceCalculation   *prometheus.HistogramVec
	BalanceCacheRequests *prometheus.CounterVec
	OverdueMarked        prometheus.Counter

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	// System Metrics
	ServiceUptime prometheus.Gauge
	Goroutines    prometheus.Gauge
	HeapAlloc     prometheus.Gauge

	// Validation Metrics
	ValidationErrors *prometheus.CounterVec
}

// NewMetrics registers every collector on reg. The API passes
// prometheus.DefaultRegisterer; tests pass a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pawnledger_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pawnledger_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		HTTPResponseSizeBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pawnledger_http_response_size_bytes",
				Help:    "Size of HTTP responses in bytes",
				Buckets: []float64{100, 1000, 10_000, 100_000, 1_000_000},
			},
			[]string{"method", "path", "status_code"},
		),

		// Ledger Metrics
		TransactionsCreated: f.NewCounter(
			prometheus.CounterOpts{
				Name: "pawnledger_transactions_created_total",
				Help: "Total number of pawn transactions created",
			},
		),
		PaymentsProcessed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_payments_processed_total",
				Help: "Total number of payments processed",
			},
			[]string{"outcome"},
		),
		PaymentAmount: f.NewCounter(
			prometheus.CounterOpts{
				Name: "pawnledger_payment_amount_total",
				Help: "Sum of accepted payment amounts in currency units",
			},
		),
		ExtensionsProcessed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_extensions_processed_total",
				Help: "Total number of extensions processed",
			},
			[]string{"months"},
		),
		StatusChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_status_changes_total",
				Help: "Total number of requested status changes",
			},
			[]string{"status"},
		),
		Reversals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_reversals_total",
				Help: "Total number of voided payments and cancelled extensions",
			},
			[]string{"kind"},
		),
		OperationErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_operation_errors_total",
				Help: "Total number of failed ledger operations",
			},
			[]string{"operation", "error_code"},
		),
		BalanceCalculation: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pawnledger_balance_calculation_duration_seconds",
				Help:    "Duration of balance calculations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"status"},
		),
		BalanceCacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_balance_cache_requests_total",
				Help: "Balance cache lookups by result",
			},
			[]string{"result"},
		),
		OverdueMarked: f.NewCounter(
			prometheus.CounterOpts{
				Name: "pawnledger_overdue_marked_total",
				Help: "Transactions moved to OVERDUE by the sweep",
			},
		),

		// Database Metrics
		DBConnectionsInUse: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pawnledger_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pawnledger_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBWaitCount: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pawnledger_db_wait_count",
				Help: "Total number of connections waited for",
			},
		),

		// System Metrics
		ServiceUptime: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pawnledger_service_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
		Goroutines: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pawnledger_goroutines",
				Help: "Number of goroutines currently running",
			},
		),
		HeapAlloc: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "pawnledger_heap_alloc_bytes",
				Help: "Bytes of allocated heap objects",
			},
		),

		// Validation Metrics
		ValidationErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_validation_errors_total",
				Help: "Total number of request validation errors",
			},
			[]string{"field", "tag"},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	m.HTTPResponseSizeBytes.WithLabelValues(method, path, statusCode).Observe(float64(responseSize))
}

func (m *Metrics) RecordTransactionCreated() {
	m.TransactionsCreated.Inc()
}

func (m *Metrics) RecordPayment(amount int64, redeemed bool) {
	outcome := "partial"
	if redeemed {
		outcome = "redeemed"
	}
	m.PaymentsProcessed.WithLabelValues(outcome).Inc()
	m.PaymentAmount.Add(float64(amount))
}

func (m *Metrics) RecordExtension(months string) {
	m.ExtensionsProcessed.WithLabelValues(months).Inc()
}

func (m *Metrics) RecordStatusChange(status string) {
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordReversal(kind string) {
	m.Reversals.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordOperationError(operation, code string) {
	m.OperationErrors.WithLabelValues(operation, code).Inc()
}

func (m *Metrics) RecordBalanceCalculation(status string, duration time.Duration) {
	m.BalanceCalculation.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.BalanceCacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordOverdueMarked(n int) {
	m.OverdueMarked.Add(float64(n))
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))
	m.HeapAlloc.Set(float64(memStats.HeapAlloc))
}

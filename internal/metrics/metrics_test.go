package metrics_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Behyna/pawn-services/internal/metrics"
	"github.com/Behyna/pawn-services/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if out.Counter != nil {
		return out.Counter.GetValue()
	}
	return out.Gauge.GetValue()
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(metrics.HTTPMetricsMiddleware(m, time.Second, zap.NewNop()))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "0" {
			return fiber.NewError(fiber.StatusNotFound, "no such item")
		}
		return c.SendString("ok")
	})
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendString("scrape")
	})

	testCases := []struct {
		path   string
		status int
	}{
		{path: "/items/7", status: fiber.StatusOK},
		{path: "/items/0", status: fiber.StatusNotFound},
		{path: "/missing/42", status: fiber.StatusNotFound},
		{path: "/metrics", status: fiber.StatusOK},
	}
	for _, tc := range testCases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
	}

	assert.Equal(t, float64(1), value(t, m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, float64(1), value(t, m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "404")))
	assert.Equal(t, float64(1), value(t, m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, float64(0), value(t, m.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200")))
	assert.Equal(t, float64(0), value(t, m.HTTPRequestsInFlight))
}

func TestHealthCheckMiddleware(t *testing.T) {
	ok := metrics.HealthCheck{Name: "database", Check: func(context.Context) error { return nil }}
	down := metrics.HealthCheck{Name: "rabbitmq", Check: func(context.Context) error { return errors.New("connection is closed") }}

	testCases := []struct {
		name   string
		checks []metrics.HealthCheck
		status int
		body   map[string]any
	}{
		{
			name:   "all dependencies up",
			checks: []metrics.HealthCheck{ok},
			status: fiber.StatusOK,
			body:   map[string]any{"status": "healthy", "checks": map[string]any{"database": "ok"}},
		},
		{
			name:   "broker down",
			checks: []metrics.HealthCheck{ok, down},
			status: fiber.StatusServiceUnavailable,
			body: map[string]any{"status": "unhealthy",
				"checks": map[string]any{"database": "ok", "rabbitmq": "connection is closed"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(metrics.HealthCheckMiddleware("pawn-ledger", tc.checks...))

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "pawn-ledger", body["service"])
			assert.Equal(t, tc.body["status"], body["status"])
			assert.Equal(t, tc.body["checks"], body["checks"])
		})
	}
}

func TestRecordPayment(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	m.RecordPayment(150, false)
	m.RecordPayment(450, true)

	assert.Equal(t, float64(1), value(t, m.PaymentsProcessed.WithLabelValues("partial")))
	assert.Equal(t, float64(1), value(t, m.PaymentsProcessed.WithLabelValues("redeemed")))
	assert.Equal(t, float64(600), value(t, m.PaymentAmount))
}

func TestInstrumentedCache(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	now := time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC)
	cache := metrics.NewInstrumentedCache(service.NewMemoryBalanceCache(time.Minute, func() time.Time { return now }), m)

	_, ok := cache.Get(1, now)
	assert.False(t, ok)

	cache.Set(1, now, &service.BalanceBreakdown{CurrentBalance: 450})
	b, ok := cache.Get(1, now)
	require.True(t, ok)
	assert.Equal(t, int64(450), b.CurrentBalance)

	cache.Invalidate(1)
	_, ok = cache.Get(1, now)
	assert.False(t, ok)

	assert.Equal(t, float64(1), value(t, m.BalanceCacheRequests.WithLabelValues("hit")))
	assert.Equal(t, float64(2), value(t, m.BalanceCacheRequests.WithLabelValues("miss")))
}

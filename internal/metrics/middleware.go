package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	unmatchedRoute     = "unmatched"
	healthCheckTimeout = 2 * time.Second
)

// HTTPMetricsMiddleware records count, latency and size of every request
// except metric scrapes. Errors are rendered here so the recorded status is
// the one the client sees. Requests slower than slowThreshold are logged;
// a non-positive threshold turns that off.
func HTTPMetricsMiddleware(metrics *Metrics, slowThreshold time.Duration, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(start)
		method := c.Method()
		route := routeLabel(c)
		statusCode := strconv.Itoa(c.Response().StatusCode())
		responseSize := len(c.Response().Body())

		metrics.RecordHTTPRequest(method, route, statusCode, duration, responseSize)

		if slowThreshold > 0 && duration > slowThreshold {
			logger.Warn("Slow ledger request",
				zap.String("method", method),
				zap.String("route", route),
				zap.String("id", c.Params("id")),
				zap.String("status_code", statusCode),
				zap.Duration("duration", duration),
			)
		}

		return nil
	}
}

// routeLabel keeps label cardinality bounded: requests that matched no
// route would otherwise be labelled with their raw path.
func routeLabel(c *fiber.Ctx) string {
	path := c.Route().Path
	if path == "" || (path == "/" && c.Path() != "/") {
		return unmatchedRoute
	}
	return path
}

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthCheckMiddleware answers /health with the result of every check and
// 503 when any of them fails.
func HealthCheckMiddleware(serviceName string, checks ...HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() != "/health" {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()

		status, code := "healthy", fiber.StatusOK
		results := make(map[string]string, len(checks))
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				results[hc.Name] = err.Error()
				status, code = "unhealthy", fiber.StatusServiceUnavailable
				continue
			}
			results[hc.Name] = "ok"
		}

		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"timestamp": time.Now().Unix(),
			"service":   serviceName,
			"checks":    results,
		})
	}
}

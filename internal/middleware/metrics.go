package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/deppfellow/todos/internal/errs"
	"github.com/deppfellow/todos/internal/metrics"
	"github.com/deppfellow/todos/internal/server"
	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records Prometheus request metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: s.Metrics}
}

// Collect records count and latency per method, route template and final
// status. Unmatched routes share a single "unmatched" label.
func (m *MetricsMiddleware) Collect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			m.metrics.HTTPInFlight.Inc()
			defer m.metrics.HTTPInFlight.Dec()

			err := next(c)

			route := c.Path()
			if route == "" || errors.Is(err, echo.ErrNotFound) {
				route = "unmatched"
			}

			m.metrics.RecordHTTPRequest(c.Request().Method, route, statusOf(c, err), time.Since(start))

			return err
		}
	}
}

// statusOf returns the status the global error handler will write for err.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code
	}

	return http.StatusInternalServerError
}

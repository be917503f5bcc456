package handler

import (
	"github.com/deppfellow/todos/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the Prometheus registry.
type MetricsHandler struct {
	Handler
}

func NewMetricsHandler(s *server.Server) *MetricsHandler {
	return &MetricsHandler{Handler: NewHandler(s)}
}

// Serve writes the exposition format.
func (h *MetricsHandler) Serve() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(h.server.Metrics.Registry, promhttp.HandlerOpts{
		Registry: h.server.Metrics.Registry,
	}))
}

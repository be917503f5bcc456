package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/todos/internal/middleware"
	"github.com/deppfellow/todos/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service and its store are reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]HealthCheck `json:"checks"`
}

// HealthCheck is the result of one dependency check.
type HealthCheck struct {
	Status       string `json:"status"`
	Driver       string `json:"driver,omitempty"`
	ResponseTime string `json:"response_time"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// CheckHealth pings the store within the configured timeout.
// It returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]HealthCheck),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	storeStart := time.Now()
	err := h.server.Store.Ping(ctx)
	storeDuration := time.Since(storeStart)

	check := HealthCheck{
		Status:       statusHealthy,
		Driver:       h.server.Config.Storage.Driver,
		ResponseTime: storeDuration.String(),
	}

	if err != nil {
		check.Status = statusUnhealthy
		response.Status = statusUnhealthy

		logger.Error().
			Err(err).
			Dur("response_time", storeDuration).
			Msg("store health check failed")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]any{
				"check_type":       "storage",
				"driver":           h.server.Config.Storage.Driver,
				"operation":        "health_check",
				"error_type":       "storage_unhealthy",
				"response_time_ms": storeDuration.Milliseconds(),
			})
		}
	}

	response.Checks["storage"] = check

	status := http.StatusOK
	if response.Status != statusHealthy {
		status = http.StatusServiceUnavailable
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
	} else {
		logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	}

	if err := c.JSON(status, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

package handler

import (
	"github.com/deppfellow/todos/internal/server"
	"github.com/deppfellow/todos/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Metrics *MetricsHandler
	Todos   *ListCreateHandler
	Todo    *ItemHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Metrics: NewMetricsHandler(s),
		Todos:   NewListCreateHandler(s, services.Todos),
		Todo:    NewItemHandler(s, services.Todos),
	}
}

// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/todos/internal/handler"
	"github.com/deppfellow/todos/internal/middleware"
	"github.com/deppfellow/todos/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain,
// the system routes and the todo routes.
//
// Metrics sit outermost so they see the final status of every request.
// The request id exists before the New Relic transaction and the context
// enhancer, and Recover sits inside the request logger so recovered panics
// are logged like any other 500.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Metrics.Collect(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.BodyLimit(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)
	registerTodoRoutes(router, h)

	return router
}

func registerTodoRoutes(r *echo.Echo, h *handler.Handlers) {
	todos := r.Group("/todos")

	todos.GET("", handler.Handle(h.Todos.Handler, h.Todos.List, http.StatusOK))
	todos.POST("", handler.Handle(h.Todos.Handler, h.Todos.Create, http.StatusCreated))

	todos.PUT("/:id", handler.Handle(h.Todo.Handler, h.Todo.Update, http.StatusOK))
	todos.DELETE("/:id", handler.Handle(h.Todo.Handler, h.Todo.Delete, http.StatusOK))
}

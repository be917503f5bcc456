package handler

import (
	"github.com/deppfellow/todos/internal/server"
	"github.com/deppfellow/todos/internal/service"
	"github.com/deppfellow/todos/internal/todo"
	"github.com/labstack/echo/v4"
)

// Success messages.
const (
	MsgCreated = "Todo created successfully"
	MsgUpdated = "Todo updated successfully"
	MsgDeleted = "Todo deleted successfully"
)

// ListResponse is the body of GET /todos.
type ListResponse struct {
	Success bool                  `json:"success"`
	Data    []todo.Representation `json:"data"`
	Count   int                   `json:"count"`
}

func (r *ListResponse) Attributes() map[string]any {
	return map[string]any{"todos.count": r.Count}
}

// TodoResponse is the body of a successful create or update.
type TodoResponse struct {
	Success bool                `json:"success"`
	Data    todo.Representation `json:"data"`
	Message string              `json:"message"`
}

func (r *TodoResponse) Attributes() map[string]any {
	if id, ok := r.Data[todo.FieldID].(string); ok {
		return map[string]any{"todo.id": id}
	}
	return nil
}

// MessageResponse is the body of a successful delete.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListCreateHandler serves the /todos collection.
type ListCreateHandler struct {
	Handler
	todos *service.TodoService
}

func NewListCreateHandler(s *server.Server, todos *service.TodoService) *ListCreateHandler {
	return &ListCreateHandler{
		Handler: NewHandler(s),
		todos:   todos,
	}
}

// List returns every todo, newest first.
func (h *ListCreateHandler) List(c echo.Context, _ *todo.ListRequest) (*ListResponse, error) {
	todos, err := h.todos.List(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Success: true,
		Data:    todos,
		Count:   len(todos),
	}, nil
}

// Create stores a new todo.
func (h *ListCreateHandler) Create(c echo.Context, req *todo.CreateRequest) (*TodoResponse, error) {
	created, err := h.todos.Create(c.Request().Context(), req.Description)
	if err != nil {
		return nil, err
	}

	return &TodoResponse{
		Success: true,
		Data:    created,
		Message: MsgCreated,
	}, nil
}

// ItemHandler serves a single todo at /todos/:id.
type ItemHandler struct {
	Handler
	todos *service.TodoService
}

func NewItemHandler(s *server.Server, todos *service.TodoService) *ItemHandler {
	return &ItemHandler{
		Handler: NewHandler(s),
		todos:   todos,
	}
}

// Update replaces the description of a todo.
func (h *ItemHandler) Update(c echo.Context, req *todo.UpdateRequest) (*TodoResponse, error) {
	updated, err := h.todos.Update(c.Request().Context(), req.ID, req.Description)
	if err != nil {
		return nil, err
	}

	return &TodoResponse{
		Success: true,
		Data:    updated,
		Message: MsgUpdated,
	}, nil
}

// Delete removes a todo.
func (h *ItemHandler) Delete(c echo.Context, req *todo.DeleteRequest) (*MessageResponse, error) {
	if err := h.todos.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}

	return &MessageResponse{
		Success: true,
		Message: MsgDeleted,
	}, nil
}

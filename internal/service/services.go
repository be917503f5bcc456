package service

import (
	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/server"
)

// Services groups the business layer.
type Services struct {
	Todos *TodoService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Todos: NewTodoService(repos.Todos, s.Logger),
	}
}

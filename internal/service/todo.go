package service

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/todos/internal/errs"
	"github.com/deppfellow/todos/internal/logger"
	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/todo"
	"github.com/rs/zerolog"
)

// Client-facing failure messages.
const (
	MsgConnectionFailed = "Database connection failed. Please try again later."
	MsgOperationFailed  = "Database operation failed. Please try again."
	MsgNotFound         = "Todo not found."
	MsgDeleteFailed     = "Failed to delete todo."

	MsgListUnexpected   = "An unexpected error occurred while retrieving todos."
	MsgCreateUnexpected = "An unexpected error occurred while creating the todo."
	MsgUpdateUnexpected = "An unexpected error occurred while updating the todo."
	MsgDeleteUnexpected = "An unexpected error occurred while deleting the todo."
)

// TodoService runs the todo operations against the shared store.
type TodoService struct {
	todos  repository.TodoStore
	logger *zerolog.Logger
	now    func() time.Time
}

func NewTodoService(todos repository.TodoStore, logger *zerolog.Logger) *TodoService {
	return &TodoService{
		todos:  todos,
		logger: logger,
		now:    time.Now,
	}
}

// List returns every todo, newest first.
func (s *TodoService) List(ctx context.Context) ([]todo.Representation, error) {
	log := logger.FromContext(ctx, s.logger)

	docs, err := s.todos.FindAll(ctx, repository.NewestFirst)
	if err != nil {
		// Listing reports store rejections with its own message.
		if errors.Is(err, repository.ErrOperation) {
			log.Error().Stack().Err(err).Msg("failed to retrieve todos")
			return nil, errs.NewInternalServerError().WithMessage(MsgListUnexpected).WithCause(err)
		}
		return nil, s.storeError(log, err, "failed to retrieve todos", MsgListUnexpected)
	}

	return todo.FormatAll(docs), nil
}

// Create stores a new todo and returns it as persisted.
// description must already be trimmed and validated.
func (s *TodoService) Create(ctx context.Context, description string) (todo.Representation, error) {
	log := logger.FromContext(ctx, s.logger)

	id, err := s.todos.Insert(ctx, todo.NewDocument(description, s.now()))
	if err != nil {
		return nil, s.storeError(log, err, "failed to create todo", MsgCreateUnexpected)
	}

	created, err := s.todos.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(log, err, "failed to read created todo", MsgCreateUnexpected)
	}

	log.Info().Str("todo_id", id.Hex()).Msg("todo created")

	return todo.Format(created), nil
}

// Update replaces the description of an existing todo.
func (s *TodoService) Update(ctx context.Context, id todo.ID, description string) (todo.Representation, error) {
	log := logger.FromContext(ctx, s.logger).With().Str("todo_id", id.Hex()).Logger()

	if err := s.mustExist(ctx, &log, id, MsgUpdateUnexpected); err != nil {
		return nil, err
	}

	_, err := s.todos.UpdateFields(ctx, id, todo.Document{todo.FieldDescription: description})
	if err != nil {
		return nil, s.storeError(&log, err, "failed to update todo", MsgUpdateUnexpected)
	}

	updated, err := s.todos.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(&log, err, "failed to read updated todo", MsgUpdateUnexpected)
	}

	log.Info().Msg("todo updated")

	return todo.Format(updated), nil
}

// Delete removes an existing todo.
//
// A todo that disappears between the existence check and the delete is
// reported as a 500, not a 404.
func (s *TodoService) Delete(ctx context.Context, id todo.ID) error {
	log := logger.FromContext(ctx, s.logger).With().Str("todo_id", id.Hex()).Logger()

	if err := s.mustExist(ctx, &log, id, MsgDeleteUnexpected); err != nil {
		return err
	}

	deleted, err := s.todos.DeleteByID(ctx, id)
	if err != nil {
		return s.storeError(&log, err, "failed to delete todo", MsgDeleteUnexpected)
	}

	if deleted == 0 {
		log.Warn().Msg("todo vanished before delete")
		return errs.NewInternalServerError().WithMessage(MsgDeleteFailed)
	}

	log.Info().Msg("todo deleted")
	return nil
}

func (s *TodoService) mustExist(ctx context.Context, log *zerolog.Logger, id todo.ID, unexpected string) error {
	doc, err := s.todos.FindByID(ctx, id)
	if err != nil {
		return s.storeError(log, err, "failed to look up todo", unexpected)
	}
	if doc == nil {
		return errs.NewNotFoundError(MsgNotFound)
	}
	return nil
}

// storeError logs a store failure and maps it onto the client-facing error.
// The driver error travels as the cause and is never rendered.
func (s *TodoService) storeError(log *zerolog.Logger, err error, msg, unexpected string) error {
	log.Error().Stack().Err(err).Msg(msg)

	switch {
	case errors.Is(err, repository.ErrUnavailable):
		return errs.NewServiceUnavailableError(MsgConnectionFailed).WithCause(err)
	case errors.Is(err, repository.ErrOperation):
		return errs.NewInternalServerError().WithMessage(MsgOperationFailed).WithCause(err)
	default:
		return errs.NewInternalServerError().WithMessage(unexpected).WithCause(err)
	}
}

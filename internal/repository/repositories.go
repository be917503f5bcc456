// Package repository handles all interactions with the document store.
//
// It defines the TodoStore contract the service layer depends on, and the
// two error classes every implementation reports: the store could not be
// reached (ErrUnavailable) or it rejected the operation (ErrOperation).
//
// Implementations live in sub-packages:
//   - mongostore: MongoDB collection (default)
//   - pgstore: PostgreSQL table
//   - memstore: in-process map, for local runs and tests
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/todos/internal/todo"
	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrUnavailable marks failures to reach the store (network, timeouts,
	// server selection, closed client).
	ErrUnavailable = errors.New("document store unavailable")

	// ErrOperation marks failures reported by a reachable store
	// (constraint violations, rejected commands, decode errors).
	ErrOperation = errors.New("document store operation failed")
)

// Wrap tags a driver error with its class (ErrUnavailable or ErrOperation)
// and a stack trace. Both the class and err stay reachable through
// errors.Is and errors.As.
func Wrap(class, err error, msg string) error {
	return pkgerrors.Wrap(&classified{class: class, err: err}, msg)
}

type classified struct {
	class error
	err   error
}

func (c *classified) Error() string { return c.class.Error() + ": " + c.err.Error() }

func (c *classified) Unwrap() []error { return []error{c.class, c.err} }

// SortDirection orders query results.
type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

// Sort orders FindAll results by a single field.
type Sort struct {
	Field     string
	Direction SortDirection
}

// NewestFirst sorts by creation time, newest first.
var NewestFirst = Sort{Field: todo.FieldCreatedAt, Direction: Descending}

// TodoStore is the todo collection.
//
// Implementations must be safe for concurrent use: a single instance is
// shared by every request for the lifetime of the process.
type TodoStore interface {
	// FindAll returns every document in the given order.
	FindAll(ctx context.Context, sort Sort) ([]todo.Document, error)

	// FindByID returns the document with id, or (nil, nil) when absent.
	FindByID(ctx context.Context, id todo.ID) (todo.Document, error)

	// Insert stores doc and returns the id the store assigned to it.
	Insert(ctx context.Context, doc todo.Document) (todo.ID, error)

	// UpdateFields sets the given fields on the document with id and
	// returns how many documents matched.
	UpdateFields(ctx context.Context, id todo.ID, fields todo.Document) (int64, error)

	// DeleteByID removes the document with id and returns how many were removed.
	DeleteByID(ctx context.Context, id todo.ID) (int64, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying client.
	Close(ctx context.Context) error
}

// Repositories is a container for all repository instances.
type Repositories struct {
	Todos TodoStore
}

// NewRepositories constructs the repository container around the shared store handle.
func NewRepositories(todos TodoStore) *Repositories {
	return &Repositories{Todos: todos}
}

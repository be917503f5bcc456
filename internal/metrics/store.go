package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/todo"
)

// Store outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// instrumentedStore times every TodoStore call.
type instrumentedStore struct {
	repository.TodoStore
	m *Metrics
}

// InstrumentStore returns store with every operation observed in
// store_operation_duration_seconds.
func InstrumentStore(store repository.TodoStore, m *Metrics) repository.TodoStore {
	return &instrumentedStore{TodoStore: store, m: m}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	s.m.RecordStoreOperation(op, outcome(err), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, repository.ErrUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}

func (s *instrumentedStore) FindAll(ctx context.Context, sort repository.Sort) (docs []todo.Document, err error) {
	start := time.Now()
	defer func() { s.observe("find_all", start, err) }()

	return s.TodoStore.FindAll(ctx, sort)
}

func (s *instrumentedStore) FindByID(ctx context.Context, id todo.ID) (doc todo.Document, err error) {
	start := time.Now()
	defer func() { s.observe("find_by_id", start, err) }()

	return s.TodoStore.FindByID(ctx, id)
}

func (s *instrumentedStore) Insert(ctx context.Context, doc todo.Document) (id todo.ID, err error) {
	start := time.Now()
	defer func() { s.observe("insert", start, err) }()

	return s.TodoStore.Insert(ctx, doc)
}

func (s *instrumentedStore) UpdateFields(ctx context.Context, id todo.ID, fields todo.Document) (n int64, err error) {
	start := time.Now()
	defer func() { s.observe("update", start, err) }()

	return s.TodoStore.UpdateFields(ctx, id, fields)
}

func (s *instrumentedStore) DeleteByID(ctx context.Context, id todo.ID) (n int64, err error) {
	start := time.Now()
	defer func() { s.observe("delete", start, err) }()

	return s.TodoStore.DeleteByID(ctx, id)
}

func (s *instrumentedStore) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.observe("ping", start, err) }()

	return s.TodoStore.Ping(ctx)
}

// Package memstore is an in-process TodoStore.
//
// It backs the "memory" storage driver and stands in for a real document
// store in tests. Documents are copied on the way in and out so callers can
// never alias stored state.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/todo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps documents in a map keyed by id.
type Store struct {
	mu     sync.RWMutex
	docs   map[todo.ID]todo.Document
	closed bool
}

var _ repository.TodoStore = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{docs: make(map[todo.ID]todo.Document)}
}

func (s *Store) FindAll(ctx context.Context, order repository.Sort) ([]todo.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}

	out := make([]todo.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, clone(doc))
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i][order.Field], out[j][order.Field])
		if c == 0 {
			// ObjectIDs grow with insertion time; use them as a tie-breaker.
			c = compareIDs(out[i], out[j])
		}
		if order.Direction == repository.Descending {
			return c > 0
		}
		return c < 0
	})

	return out, nil
}

func (s *Store) FindByID(ctx context.Context, id todo.ID) (todo.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return nil, err
	}

	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	return clone(doc), nil
}

func (s *Store) Insert(ctx context.Context, doc todo.Document) (todo.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return todo.ID{}, err
	}

	if _, ok := doc[todo.FieldID]; ok {
		return todo.ID{}, fmt.Errorf("%w: document already carries an _id", repository.ErrOperation)
	}

	id := primitive.NewObjectID()
	stored := clone(doc)
	stored[todo.FieldID] = id
	s.docs[id] = stored

	return id, nil
}

func (s *Store) UpdateFields(ctx context.Context, id todo.ID, fields todo.Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return 0, err
	}

	if _, ok := fields[todo.FieldID]; ok {
		return 0, fmt.Errorf("%w: _id is immutable", repository.ErrOperation)
	}

	doc, ok := s.docs[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		doc[k] = v
	}
	return 1, nil
}

func (s *Store) DeleteByID(ctx context.Context, id todo.ID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return 0, err
	}

	if _, ok := s.docs[id]; !ok {
		return 0, nil
	}
	delete(s.docs, id)
	return 1, nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.check(ctx)
}

// Close marks the store closed; later calls report ErrUnavailable.
func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.docs)
}

func (s *Store) check(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("%w: store closed", repository.ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}
	return nil
}

func clone(doc todo.Document) todo.Document {
	out := make(todo.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func compareIDs(a, b todo.Document) int {
	idA, _ := a.ID()
	idB, _ := b.ID()
	return compare(idA.Hex(), idB.Hex())
}

// compare orders the value types a todo document holds.
// Values of different or unknown types compare equal.
func compare(a, b any) int {
	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case string:
		if y, ok := b.(string); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
		}
	case bool:
		if y, ok := b.(bool); ok && x != y {
			if !x {
				return -1
			}
			return 1
		}
	}
	return 0
}

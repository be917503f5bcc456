// Package repotest provides TodoStore helpers for tests.
package repotest

import (
	"context"
	"sync"

	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/todo"
)

// Op names a TodoStore method.
type Op string

const (
	OpFindAll      Op = "FindAll"
	OpFindByID     Op = "FindByID"
	OpInsert       Op = "Insert"
	OpUpdateFields Op = "UpdateFields"
	OpDeleteByID   Op = "DeleteByID"
	OpPing         Op = "Ping"
)

// FaultyStore wraps a TodoStore and fails selected operations.
type FaultyStore struct {
	repository.TodoStore

	mu     sync.Mutex
	faults map[Op]error

	// ZeroDeletes makes DeleteByID report zero removed documents without
	// touching the wrapped store.
	ZeroDeletes bool
}

// NewFaultyStore wraps store.
func NewFaultyStore(store repository.TodoStore) *FaultyStore {
	return &FaultyStore{TodoStore: store, faults: make(map[Op]error)}
}

// Fail makes every call to op return err. A nil err clears the fault.
func (f *FaultyStore) Fail(op Op, err error) *FaultyStore {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.faults, op)
	} else {
		f.faults[op] = err
	}
	return f
}

func (f *FaultyStore) fault(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.faults[op]
}

func (f *FaultyStore) FindAll(ctx context.Context, sort repository.Sort) ([]todo.Document, error) {
	if err := f.fault(OpFindAll); err != nil {
		return nil, err
	}
	return f.TodoStore.FindAll(ctx, sort)
}

func (f *FaultyStore) FindByID(ctx context.Context, id todo.ID) (todo.Document, error) {
	if err := f.fault(OpFindByID); err != nil {
		return nil, err
	}
	return f.TodoStore.FindByID(ctx, id)
}

func (f *FaultyStore) Insert(ctx context.Context, doc todo.Document) (todo.ID, error) {
	if err := f.fault(OpInsert); err != nil {
		return todo.ID{}, err
	}
	return f.TodoStore.Insert(ctx, doc)
}

func (f *FaultyStore) UpdateFields(ctx context.Context, id todo.ID, fields todo.Document) (int64, error) {
	if err := f.fault(OpUpdateFields); err != nil {
		return 0, err
	}
	return f.TodoStore.UpdateFields(ctx, id, fields)
}

func (f *FaultyStore) DeleteByID(ctx context.Context, id todo.ID) (int64, error) {
	if err := f.fault(OpDeleteByID); err != nil {
		return 0, err
	}
	if f.ZeroDeletes {
		return 0, nil
	}
	return f.TodoStore.DeleteByID(ctx, id)
}

func (f *FaultyStore) Ping(ctx context.Context) error {
	if err := f.fault(OpPing); err != nil {
		return err
	}
	return f.TodoStore.Ping(ctx)
}

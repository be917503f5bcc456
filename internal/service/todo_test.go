package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/todos/internal/errs"
	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/repository/memstore"
	"github.com/deppfellow/todos/internal/repository/repotest"
	"github.com/deppfellow/todos/internal/todo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	errDown     = repository.Wrap(repository.ErrUnavailable, errors.New("connection refused"), "find")
	errRejected = repository.Wrap(repository.ErrOperation, errors.New("E11000 duplicate key"), "insert")
	errWeird    = errors.New("something else")
)

func newService(t *testing.T) (*TodoService, *repotest.FaultyStore) {
	t.Helper()

	store := repotest.NewFaultyStore(memstore.New())
	nop := zerolog.Nop()
	svc := NewTodoService(store, &nop)
	return svc, store
}

func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *errs.HTTPError", err)
	}
	if httpErr.Status != status || httpErr.Message != message {
		t.Fatalf("got %d %q, want %d %q", httpErr.Status, httpErr.Message, status, message)
	}
}

func TestCreate_ReturnsPersistedTodo(t *testing.T) {
	svc, _ := newService(t)
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 123_000_000, time.UTC)
	svc.now = func() time.Time { return fixed }

	got, err := svc.Create(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := todo.ParseID(got[todo.FieldID].(string)); err != nil {
		t.Errorf("_id %v is not a hex id: %v", got[todo.FieldID], err)
	}
	if got[todo.FieldDescription] != "Buy milk" {
		t.Errorf("description = %v", got[todo.FieldDescription])
	}
	if got[todo.FieldCreatedAt] != "2024-05-06T07:08:09.123Z" {
		t.Errorf("created_at = %v", got[todo.FieldCreatedAt])
	}
	if got[todo.FieldCompleted] != false {
		t.Errorf("completed = %v", got[todo.FieldCompleted])
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, d := range []string{"a", "b", "c"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		if _, err := svc.Create(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 || list[0][todo.FieldDescription] != "c" || list[2][todo.FieldDescription] != "a" {
		t.Fatalf("List() = %v", list)
	}
}

func TestList_Empty(t *testing.T) {
	svc, _ := newService(t)

	list, err := svc.List(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("List() = %#v, %v; want empty slice", list, err)
	}
}

func TestList_Failures(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{errDown, http.StatusServiceUnavailable, MsgConnectionFailed},
		{errRejected, http.StatusInternalServerError, MsgListUnexpected},
		{errWeird, http.StatusInternalServerError, MsgListUnexpected},
	}

	for _, tt := range tests {
		svc, store := newService(t)
		store.Fail(repotest.OpFindAll, tt.err)

		_, err := svc.List(context.Background())
		assertHTTPError(t, err, tt.status, tt.message)

		if !errors.Is(err, tt.err) {
			t.Errorf("cause %v not kept in chain", tt.err)
		}
	}
}

func TestCreate_Failures(t *testing.T) {
	tests := []struct {
		op      repotest.Op
		err     error
		status  int
		message string
	}{
		{repotest.OpInsert, errDown, http.StatusServiceUnavailable, MsgConnectionFailed},
		{repotest.OpInsert, errRejected, http.StatusInternalServerError, MsgOperationFailed},
		{repotest.OpInsert, errWeird, http.StatusInternalServerError, MsgCreateUnexpected},
		{repotest.OpFindByID, errDown, http.StatusServiceUnavailable, MsgConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.op, tt.message), func(t *testing.T) {
			svc, store := newService(t)
			store.Fail(tt.op, tt.err)

			_, err := svc.Create(context.Background(), "x")
			assertHTTPError(t, err, tt.status, tt.message)
		})
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "old")
	id, _ := todo.ParseID(created[todo.FieldID].(string))

	updated, err := svc.Update(ctx, id, "new")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated[todo.FieldDescription] != "new" {
		t.Errorf("description = %v", updated[todo.FieldDescription])
	}
	if updated[todo.FieldCreatedAt] != created[todo.FieldCreatedAt] || updated[todo.FieldID] != created[todo.FieldID] {
		t.Errorf("immutable fields changed: %v -> %v", created, updated)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Update(context.Background(), primitive.NewObjectID(), "new")
	assertHTTPError(t, err, http.StatusNotFound, MsgNotFound)
}

func TestUpdate_Failures(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "old")
	id, _ := todo.ParseID(created[todo.FieldID].(string))

	store.Fail(repotest.OpUpdateFields, errRejected)
	_, err := svc.Update(ctx, id, "new")
	assertHTTPError(t, err, http.StatusInternalServerError, MsgOperationFailed)

	store.Fail(repotest.OpUpdateFields, errWeird)
	_, err = svc.Update(ctx, id, "new")
	assertHTTPError(t, err, http.StatusInternalServerError, MsgUpdateUnexpected)

	store.Fail(repotest.OpFindByID, errDown)
	_, err = svc.Update(ctx, id, "new")
	assertHTTPError(t, err, http.StatusServiceUnavailable, MsgConnectionFailed)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "bye")
	id, _ := todo.ParseID(created[todo.FieldID].(string))

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	err := svc.Delete(ctx, id)
	assertHTTPError(t, err, http.StatusNotFound, MsgNotFound)
}

func TestDelete_ZeroAffectedIsInternalError(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "bye")
	id, _ := todo.ParseID(created[todo.FieldID].(string))

	store.ZeroDeletes = true

	err := svc.Delete(ctx, id)
	assertHTTPError(t, err, http.StatusInternalServerError, MsgDeleteFailed)
}

func TestDelete_Failures(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, "bye")
	id, _ := todo.ParseID(created[todo.FieldID].(string))

	store.Fail(repotest.OpDeleteByID, errDown)
	assertHTTPError(t, svc.Delete(ctx, id), http.StatusServiceUnavailable, MsgConnectionFailed)

	store.Fail(repotest.OpDeleteByID, errWeird)
	assertHTTPError(t, svc.Delete(ctx, id), http.StatusInternalServerError, MsgDeleteUnexpected)
}

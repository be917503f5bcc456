package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/todo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	store := New()
	now := time.Now().UTC()

	doc := todo.NewDocument("Buy milk", now)
	id, err := store.Insert(ctx, doc)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, ok := doc[todo.FieldID]; ok {
		t.Fatal("Insert() mutated the caller's document")
	}

	got, err := store.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if gotID, _ := got.ID(); gotID != id {
		t.Fatalf("_id = %v, want %v", gotID, id)
	}
	if got[todo.FieldDescription] != "Buy milk" {
		t.Fatalf("description = %v", got[todo.FieldDescription])
	}

	got[todo.FieldDescription] = "changed"
	again, _ := store.FindByID(ctx, id)
	if again[todo.FieldDescription] != "Buy milk" {
		t.Fatal("FindByID() returned an alias of stored state")
	}
}

func TestFindByID_Absent(t *testing.T) {
	doc, err := New().FindByID(context.Background(), primitive.NewObjectID())
	if doc != nil || err != nil {
		t.Fatalf("FindByID() = %v, %v; want nil, nil", doc, err)
	}
}

func TestFindAll_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, desc := range []string{"first", "second", "third"} {
		if _, err := store.Insert(ctx, todo.NewDocument(desc, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := store.FindAll(ctx, repository.NewestFirst)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	want := []string{"third", "second", "first"}
	for i, d := range docs {
		if d[todo.FieldDescription] != want[i] {
			t.Fatalf("docs[%d] = %v, want %s", i, d[todo.FieldDescription], want[i])
		}
	}
}

func TestFindAll_Empty(t *testing.T) {
	docs, err := New().FindAll(context.Background(), repository.NewestFirst)
	if err != nil {
		t.Fatal(err)
	}
	if docs == nil || len(docs) != 0 {
		t.Fatalf("FindAll() = %#v, want empty non-nil slice", docs)
	}
}

func TestUpdateFieldsAndDelete(t *testing.T) {
	ctx := context.Background()
	store := New()

	id, _ := store.Insert(ctx, todo.NewDocument("old", time.Now()))

	n, err := store.UpdateFields(ctx, id, todo.Document{todo.FieldDescription: "new"})
	if err != nil || n != 1 {
		t.Fatalf("UpdateFields() = %d, %v", n, err)
	}

	doc, _ := store.FindByID(ctx, id)
	if doc[todo.FieldDescription] != "new" || doc[todo.FieldCompleted] != false {
		t.Fatalf("unexpected document after update: %v", doc)
	}

	if n, _ := store.UpdateFields(ctx, primitive.NewObjectID(), todo.Document{todo.FieldDescription: "x"}); n != 0 {
		t.Fatalf("UpdateFields(missing) matched %d", n)
	}

	if _, err := store.UpdateFields(ctx, id, todo.Document{todo.FieldID: primitive.NewObjectID()}); !errors.Is(err, repository.ErrOperation) {
		t.Fatalf("UpdateFields(_id) error = %v, want ErrOperation", err)
	}

	if n, err := store.DeleteByID(ctx, id); err != nil || n != 1 {
		t.Fatalf("DeleteByID() = %d, %v", n, err)
	}
	if n, _ := store.DeleteByID(ctx, id); n != 0 {
		t.Fatalf("second DeleteByID() = %d, want 0", n)
	}
	if store.Len() != 0 {
		t.Fatalf("Len() = %d", store.Len())
	}
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	ctx := context.Background()
	store := New()
	_ = store.Close(ctx)

	if err := store.Ping(ctx); !errors.Is(err, repository.ErrUnavailable) {
		t.Fatalf("Ping() error = %v, want ErrUnavailable", err)
	}
	if _, err := store.FindAll(ctx, repository.NewestFirst); !errors.Is(err, repository.ErrUnavailable) {
		t.Fatalf("FindAll() error = %v, want ErrUnavailable", err)
	}
}

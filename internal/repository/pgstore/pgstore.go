// Package pgstore implements repository.TodoStore on a PostgreSQL table.
//
// Each document field maps to a column; the ObjectID is generated by the
// store and kept in its 24-character hex form, so ids look the same whichever
// driver is configured.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/sqlerr"
	"github.com/deppfellow/todos/internal/todo"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// columns maps document fields onto table columns.
var columns = map[string]string{
	todo.FieldID:          "id",
	todo.FieldDescription: "description",
	todo.FieldCreatedAt:   "created_at",
	todo.FieldCompleted:   "completed",
}

const selectColumns = "id, description, created_at, completed"

// Store is a TodoStore backed by one table.
type Store struct {
	db    DB
	table string
	close func()
}

var _ repository.TodoStore = (*Store)(nil)

// New returns a Store on table using pool. Close closes the pool.
func New(pool *pgxpool.Pool, table string) *Store {
	s := NewWithDB(pool, table)
	s.close = pool.Close
	return s
}

// NewWithDB returns a Store on table using db. Close is a no-op.
func NewWithDB(db DB, table string) *Store {
	return &Store{
		db:    db,
		table: pgx.Identifier{table}.Sanitize(),
		close: func() {},
	}
}

func (s *Store) FindAll(ctx context.Context, order repository.Sort) ([]todo.Document, error) {
	query, err := s.selectAllSQL(order)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, sqlerr.HandleError(err, "find todos")
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (todo.Document, error) {
		return scanDocument(row)
	})
	if err != nil {
		return nil, sqlerr.HandleError(err, "scan todos")
	}
	if docs == nil {
		docs = []todo.Document{}
	}
	return docs, nil
}

func (s *Store) FindByID(ctx context.Context, id todo.ID) (todo.Document, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", selectColumns, s.table)

	doc, err := scanDocument(s.db.QueryRow(ctx, query, id.Hex()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, sqlerr.HandleError(err, "find todo")
	}
	return doc, nil
}

func (s *Store) Insert(ctx context.Context, doc todo.Document) (todo.ID, error) {
	if _, ok := doc[todo.FieldID]; ok {
		return todo.ID{}, fmt.Errorf("%w: document already carries an _id", repository.ErrOperation)
	}

	id := primitive.NewObjectID()

	fields := make(todo.Document, len(doc)+1)
	for k, v := range doc {
		fields[k] = v
	}
	fields[todo.FieldID] = id.Hex()

	cols, args, err := bindFields(fields)
	if err != nil {
		return todo.ID{}, err
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return todo.ID{}, sqlerr.HandleError(err, "insert todo")
	}
	return id, nil
}

func (s *Store) UpdateFields(ctx context.Context, id todo.ID, fields todo.Document) (int64, error) {
	query, args, err := s.updateSQL(id, fields)
	if err != nil {
		return 0, err
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, sqlerr.HandleError(err, "update todo")
	}
	return tag.RowsAffected(), nil
}

func (s *Store) DeleteByID(ctx context.Context, id todo.ID) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table)

	tag, err := s.db.Exec(ctx, query, id.Hex())
	if err != nil {
		return 0, sqlerr.HandleError(err, "delete todo")
	}
	return tag.RowsAffected(), nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return sqlerr.HandleError(err, "ping")
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.close()
	return nil
}

func (s *Store) selectAllSQL(order repository.Sort) (string, error) {
	col, ok := columns[order.Field]
	if !ok {
		return "", fmt.Errorf("%w: cannot sort by %q", repository.ErrOperation, order.Field)
	}

	dir := "ASC"
	if order.Direction == repository.Descending {
		dir = "DESC"
	}

	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s %s, id %s",
		selectColumns, s.table, col, dir, dir), nil
}

func (s *Store) updateSQL(id todo.ID, fields todo.Document) (string, []any, error) {
	if _, ok := fields[todo.FieldID]; ok {
		return "", nil, fmt.Errorf("%w: _id is immutable", repository.ErrOperation)
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: no fields to update", repository.ErrOperation)
	}

	cols, args, err := bindFields(fields)
	if err != nil {
		return "", nil, err
	}

	set := make([]string, len(cols))
	for i, col := range cols {
		set[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, id.Hex())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		s.table, strings.Join(set, ", "), len(args))

	return query, args, nil
}

// bindFields returns the columns and values for fields in a stable order.
func bindFields(fields todo.Document) ([]string, []any, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		col, ok := columns[k]
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown field %q", repository.ErrOperation, k)
		}
		cols = append(cols, col)
		args = append(args, fields[k])
	}
	return cols, args, nil
}

func scanDocument(row pgx.Row) (todo.Document, error) {
	var (
		hexID       string
		description string
		createdAt   time.Time
		completed   bool
	)

	if err := row.Scan(&hexID, &description, &createdAt, &completed); err != nil {
		return nil, err
	}

	id, err := todo.ParseID(hexID)
	if err != nil {
		return nil, fmt.Errorf("stored id %q: %w", hexID, err)
	}

	return todo.Document{
		todo.FieldID:          id,
		todo.FieldDescription: description,
		todo.FieldCreatedAt:   createdAt.UTC(),
		todo.FieldCompleted:   completed,
	}, nil
}

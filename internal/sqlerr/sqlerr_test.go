package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/deppfellow/todos/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapCode(t *testing.T) {
	tests := []struct {
		sqlstate string
		want     Code
	}{
		{"23505", UniqueViolation},
		{"23502", NotNullViolation},
		{"42P01", UndefinedTable},
		{"08006", ConnectionException},
		{"08001", ConnectionException},
		{"57P01", AdminShutdown},
		{"57P03", CannotConnectNow},
		{"22001", Other},
		{"08", Other},
	}

	for _, tt := range tests {
		if got := MapCode(tt.sqlstate); got != tt.want {
			t.Errorf("MapCode(%q) = %v, want %v", tt.sqlstate, got, tt.want)
		}
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"connection exception", &pgconn.PgError{Code: "08006", Message: "connection failure"}, repository.ErrUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01", Severity: "FATAL"}, repository.ErrUnavailable},
		{"eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), repository.ErrUnavailable},
		{"deadline", context.DeadlineExceeded, repository.ErrUnavailable},
		{"unique violation", &pgconn.PgError{Code: "23505", TableName: "todos"}, repository.ErrOperation},
		{"value too long", &pgconn.PgError{Code: "22001"}, repository.ErrOperation},
		{"plain error", errors.New("boom"), repository.ErrOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleError(tt.err, "op")
			if !errors.Is(got, tt.want) {
				t.Fatalf("HandleError() = %v, want class %v", got, tt.want)
			}
		})
	}
}

func TestHandleError_KeepsPgDetails(t *testing.T) {
	err := HandleError(&pgconn.PgError{Code: "23505", Message: "duplicate key", ConstraintName: "todos_pkey"}, "insert todo")

	var sqlErr *Error
	if !errors.As(err, &sqlErr) {
		t.Fatalf("expected *Error in chain, got %v", err)
	}
	if sqlErr.Code != UniqueViolation || sqlErr.ConstraintName != "todos_pkey" {
		t.Fatalf("unexpected converted error: %+v", sqlErr)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatal("original PgError no longer reachable")
	}
}

func TestHandleError_Nil(t *testing.T) {
	if err := HandleError(nil, "op"); err != nil {
		t.Fatalf("HandleError(nil) = %v", err)
	}
}

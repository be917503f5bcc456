package sqlerr

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/deppfellow/todos/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCode reports the Code carried by err, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

// ConvertPgError converts a raw pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// IsUnavailable reports whether err means the database could not be reached,
// as opposed to a statement the server rejected.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	switch ErrCode(err) {
	case ConnectionException, AdminShutdown, CrashShutdown, CannotConnectNow, TooManyConnections:
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		pgconn.SafeToRetry(err) ||
		pgconn.Timeout(err)
}

// HandleError classifies a database error into repository.ErrUnavailable
// or repository.ErrOperation, keeping the driver error in the chain.
// PostgreSQL errors are converted into *Error first.
func HandleError(err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		err = ConvertPgError(pgErr)
	}

	if IsUnavailable(err) {
		return repository.Wrap(repository.ErrUnavailable, err, op)
	}
	return repository.Wrap(repository.ErrOperation, err, op)
}

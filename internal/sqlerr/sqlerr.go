// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes reported by PostgreSQL into a small set of
// categories, and decides whether a failure means the database could not be
// reached or that it rejected the statement.
package sqlerr

import "fmt"

// Code is a coarse category for a PostgreSQL SQLSTATE.
type Code int

const (
	Other Code = iota
	NotNullViolation
	ForeignKeyViolation
	UniqueViolation
	CheckViolation
	UndefinedTable
	ConnectionException
	AdminShutdown
	CrashShutdown
	CannotConnectNow
	TooManyConnections
	QueryCanceled
)

func (c Code) String() string {
	switch c {
	case NotNullViolation:
		return "not_null_violation"
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case UniqueViolation:
		return "unique_violation"
	case CheckViolation:
		return "check_violation"
	case UndefinedTable:
		return "undefined_table"
	case ConnectionException:
		return "connection_exception"
	case AdminShutdown:
		return "admin_shutdown"
	case CrashShutdown:
		return "crash_shutdown"
	case CannotConnectNow:
		return "cannot_connect_now"
	case TooManyConnections:
		return "too_many_connections"
	case QueryCanceled:
		return "query_canceled"
	default:
		return "other"
	}
}

// MapCode maps a SQLSTATE to a Code.
//
// Any code in class 08 (connection exception) maps to ConnectionException.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "42P01":
		return UndefinedTable
	case "57P01":
		return AdminShutdown
	case "57P02":
		return CrashShutdown
	case "57P03":
		return CannotConnectNow
	case "53300":
		return TooManyConnections
	case "57014":
		return QueryCanceled
	}

	if len(sqlstate) == 5 && sqlstate[:2] == "08" {
		return ConnectionException
	}
	return Other
}

// Severity is the PostgreSQL message severity.
type Severity int

const (
	SeverityError Severity = iota
	SeverityFatal
	SeverityPanic
	SeverityWarning
	SeverityNotice
	SeverityDebug
	SeverityInfo
	SeverityLog
)

// MapSeverity maps the non-localized severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityError
	}
}

// Error is a PostgreSQL error reduced to the fields this service logs.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	TableName      string
	ColumnName     string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (SQLSTATE %s): %s", e.Code, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// The binary carries its table definition; there is no migration history,
// only an idempotent CREATE ... IF NOT EXISTS.
//
//go:embed schema/todos.sql
var todosSchema string

// Execer is the part of pgxpool.Pool and pgx.Conn that EnsureSchema needs.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// SchemaSQL renders the table definition for the given table name.
func SchemaSQL(table string) string {
	return strings.NewReplacer(
		"{{table}}", pgx.Identifier{table}.Sanitize(),
		"{{index}}", pgx.Identifier{table + "_created_at_idx"}.Sanitize(),
	).Replace(todosSchema)
}

// EnsureSchema creates the todo table and its ordering index when missing.
func EnsureSchema(ctx context.Context, db Execer, table string, logger *zerolog.Logger) error {
	if _, err := db.Exec(ctx, SchemaSQL(table)); err != nil {
		return fmt.Errorf("ensuring schema for table %q: %w", table, err)
	}

	logger.Info().Str("table", table).Msg("database schema ready")
	return nil
}

// Package database opens the connections behind the document store.
//
// It handles:
//   - dialing MongoDB with pool and timeout settings from config
//   - creating a pgx connection pool (pgxpool) for the postgres driver
//   - wiring command/query logging (zerolog, pgx tracelog)
//   - optional New Relic instrumentation (nrmongo, nrpgx5)
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/todos/internal/config"
	loggerConfig "github.com/deppfellow/todos/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// PingTimeout bounds the startup ping, in seconds.
const PingTimeout = 10

// Postgres wraps the pgx connection pool.
// Closing the pool is left to the store built on it.
type Postgres struct {
	Pool *pgxpool.Pool
}

// multiTracer fans pgx query events out to several tracers.
//
// pgx supports a single Tracer in ConnConfig; this adapter lets the New Relic
// tracer and the local SQL logger run side by side.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// PostgresDSN builds the postgres:// URL for cfg. The password is escaped.
func PostgresDSN(cfg config.PostgresConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		cfg.SSLMode,
	)
}

// NewPostgres creates a PostgreSQL connection pool with instrumentation,
// pings it and makes sure the todo table exists.
//
// Query logging is attached outside production, chained after the New Relic
// tracer when both are active.
func NewPostgres(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Postgres, error) {
	pgCfg := cfg.Storage.Postgres

	pgxPoolConfig, err := pgxpool.ParseConfig(PostgresDSN(pgCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(pgCfg.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(pgCfg.MaxIdleConns, pgCfg.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(pgCfg.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(pgCfg.ConnMaxIdleTime) * time.Second

	if loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	if !cfg.Observability.IsProduction() {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}

		if pgxPoolConfig.ConnConfig.Tracer != nil {
			pgxPoolConfig.ConnConfig.Tracer = &multiTracer{
				tracers: []any{pgxPoolConfig.ConnConfig.Tracer, localTracer},
			}
		} else {
			pgxPoolConfig.ConnConfig.Tracer = localTracer
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout*time.Second)
	defer cancel()

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = EnsureSchema(ctx, pool, cfg.Storage.Collection, logger); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().Str("database", pgCfg.Name).Msg("connected to the database")

	return &Postgres{Pool: pool}, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/todos/internal/config"
	loggerConfig "github.com/deppfellow/todos/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo wraps the MongoDB client and the configured database.
// Disconnecting is left to the store built on it.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongo connects to MongoDB and pings the primary.
//
// Every command is logged at debug level; commands slower than the
// configured slow-query threshold are logged as warnings, failures as
// errors. With New Relic enabled the monitor is wrapped by nrmongo so
// commands show up as datastore segments.
func NewMongo(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Mongo, error) {
	mongoCfg := cfg.Storage.Mongo

	monitor := NewCommandMonitor(logger, cfg.Observability.Logging.SlowQueryThreshold)
	if loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}

	opts := options.Client().
		ApplyURI(mongoCfg.ConnectionURI()).
		SetAppName(cfg.Observability.ServiceName).
		SetConnectTimeout(mongoCfg.ConnectTimeout).
		SetServerSelectionTimeout(mongoCfg.ServerSelectionTimeout).
		SetMaxPoolSize(mongoCfg.MaxPoolSize).
		SetMonitor(monitor)

	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info().
		Str("database", mongoCfg.Database).
		Str("collection", cfg.Storage.Collection).
		Msg("connected to mongo")

	return &Mongo{
		Client:   client,
		Database: client.Database(mongoCfg.Database),
	}, nil
}

// NewCommandMonitor logs Mongo command events through logger.
//
// A zero slow threshold disables the slow-command warning.
func NewCommandMonitor(logger *zerolog.Logger, slow time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			loggerConfig.FromContext(ctx, logger).Trace().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("mongo_request_id", evt.RequestID).
				Msg("mongo command started")
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			l := loggerConfig.FromContext(ctx, logger)

			e := l.Debug()
			if slow > 0 && evt.Duration >= slow {
				e = l.Warn()
			}

			e.Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("mongo_request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Msg("mongo command finished")
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			loggerConfig.FromContext(ctx, logger).Error().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("mongo_request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("mongo command failed")
		},
	}
}

// Package config manages environment variables.
//
// It reads variables from the process environment (and an optional `.env`
// file), loads them into structured Go types, and validates them so the
// service fails fast on bad or missing config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate values so the app fails fast on bad config.
//   - Provide sane defaults for every optional block.
package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the TODOS_ prefix. The prefix is removed, keys are
	lowercased, and a double underscore marks nesting:

		TODOS_SERVER__PORT            -> server.port
		TODOS_STORAGE__MONGO__HOST    -> storage.mongo.host
		TODOS_SERVER__READ_TIMEOUT    -> server.read_timeout

	The bare MONGO_HOST / MONGO_PORT / MONGO_URI variables are honoured too,
	so existing deployments keep working. TODOS_ values win over them.
*/

const envPrefix = "TODOS_"

var collectionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Storage       StorageConfig        `koanf:"storage" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,gt=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,gt=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,gt=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the sustained requests/second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	RateBurst int     `koanf:"rate_burst" validate:"gte=0"`
}

// StorageConfig selects and configures the document store.
//
// Only the block matching Driver is validated.
type StorageConfig struct {
	Driver     string         `koanf:"driver" validate:"required,oneof=mongo postgres memory"`
	Collection string         `koanf:"collection" validate:"required"`
	Mongo      MongoConfig    `koanf:"mongo" validate:"-"`
	Postgres   PostgresConfig `koanf:"postgres" validate:"-"`
}

// MongoConfig contains MongoDB connection parameters.
//
// URI takes precedence over Host/Port when set.
type MongoConfig struct {
	URI                    string        `koanf:"uri"`
	Host                   string        `koanf:"host" validate:"required_without=URI"`
	Port                   int           `koanf:"port" validate:"required_without=URI,omitempty,gt=0,lte=65535"`
	Database               string        `koanf:"database" validate:"required"`
	ConnectTimeout         time.Duration `koanf:"connect_timeout" validate:"min=1s"`
	ServerSelectionTimeout time.Duration `koanf:"server_selection_timeout" validate:"min=1s"`
	MaxPoolSize            uint64        `koanf:"max_pool_size" validate:"gt=0"`
}

// ConnectionURI returns the mongodb:// URI to dial.
func (m MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}
	return "mongodb://" + net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

// PostgresConfig contains PostgreSQL connection parameters and pool tuning.
// ConnMaxLifetime and ConnMaxIdleTime are in seconds.
type PostgresConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// Default returns the configuration used for every value the environment
// leaves unset.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        10,
			WriteTimeout:       10,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateBurst:          20,
		},
		Storage: StorageConfig{
			Driver:     DriverMongo,
			Collection: "todos",
			Mongo: MongoConfig{
				Host:                   "localhost",
				Port:                   27017,
				Database:               "test_db",
				ConnectTimeout:         10 * time.Second,
				ServerSelectionTimeout: 5 * time.Second,
				MaxPoolSize:            100,
			},
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				SSLMode:         "disable",
				MaxOpenConns:    10,
				MaxIdleConns:    2,
				ConnMaxLifetime: 1800,
				ConnMaxIdleTime: 300,
			},
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// Default, validates it and returns the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// Legacy variables first so TODOS_ ones override them.
	err := k.Load(env.Provider("MONGO_", ".", func(s string) string {
		switch s {
		case "MONGO_HOST", "MONGO_PORT", "MONGO_URI":
			return "storage.mongo." + strings.ToLower(strings.TrimPrefix(s, "MONGO_"))
		}
		// An empty key tells koanf to skip the variable.
		return ""
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load MONGO_ env variables: %w", err)
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load %s env variables: %w", envPrefix, err)
	}

	mainConfig := Default()

	// Unmarshal keeps the defaults for every key that was not provided.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment follows primary.env.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate checks struct tags, then the storage block selected by the driver,
// then the observability rules.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Storage.Driver {
	case DriverMongo:
		if err := validate.Struct(c.Storage.Mongo); err != nil {
			return fmt.Errorf("mongo config validation failed: %w", err)
		}
	case DriverPostgres:
		if err := validate.Struct(c.Storage.Postgres); err != nil {
			return fmt.Errorf("postgres config validation failed: %w", err)
		}
	}

	// The collection doubles as the postgres table name.
	if !collectionName.MatchString(c.Storage.Collection) {
		return fmt.Errorf("invalid storage collection %q: letters, digits and underscores only", c.Storage.Collection)
	}

	if c.Observability == nil {
		return fmt.Errorf("observability config is missing")
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

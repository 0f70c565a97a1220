package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=3000"`
	Env             string        `env:"ENV,              default=development"`
	ServiceName     string        `env:"SERVICE_NAME,     default=user-service"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Log        LogConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Users      UsersConfig
	Pagination PaginationConfig
	Tracing    TracingConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=user_management"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig is optional: an empty Addr disables the idempotency store.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type UsersConfig struct {
	// Uniqueness is "global" (deleted users keep their username and email)
	// or "live".
	Uniqueness      string `env:"USER_UNIQUENESS,  default=global"`
	PasswordHashing bool   `env:"PASSWORD_HASHING, default=false"`
}

type PaginationConfig struct {
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE, default=10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE,     default=100"`
}

// TracingConfig is optional: an empty CollectorHost disables tracing.
type TracingConfig struct {
	CollectorHost string `env:"OTEL_COLLECTOR_HOST"`
}

// Load reads a .env file when one exists, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values the application cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI must not be empty"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("MONGO_DB must not be empty"))
	}
	switch c.Users.Uniqueness {
	case "global", "live":
	default:
		errs = append(errs, fmt.Errorf("USER_UNIQUENESS must be global or live, got %q", c.Users.Uniqueness))
	}
	if c.Pagination.DefaultPageSize <= 0 || c.Pagination.MaxPageSize <= 0 {
		errs = append(errs, errors.New("page sizes must be positive"))
	} else if c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		errs = append(errs, errors.New("DEFAULT_PAGE_SIZE must not exceed MAX_PAGE_SIZE"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

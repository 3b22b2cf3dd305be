package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// InsecureDefaultSecret signs tokens when SECRET_KEY is unset. Local use only.
const InsecureDefaultSecret = "dev-only-change-me"

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	LogFile  string `env:"LOG_FILE"`

	Auth      AuthConfig
	Store     StoreConfig
	Postgres  PostgresConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Bootstrap BootstrapConfig
}

type AuthConfig struct {
	SecretKey          string `env:"SECRET_KEY,                  default=dev-only-change-me"`
	TokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=60"`
	PasswordScheme     string `env:"PASSWORD_SCHEME,             default=argon2id"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=postgres"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost/payroll_manager?sslmode=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=payroll_manager"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	AdminName     string `env:"BOOTSTRAP_ADMIN_NAME"`
}

// TokenTTL is the configured access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenExpireMinutes) * time.Minute
}

// InsecureSecret reports whether tokens are signed with the built-in key.
func (c *Config) InsecureSecret() bool {
	return c.Auth.SecretKey == InsecureDefaultSecret
}

// Development reports whether ENV selects local development output.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// BootstrapAdmin reports whether startup should ensure an administrator account.
func (c *Config) BootstrapAdmin() bool {
	return c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword != ""
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load(ctx context.Context, dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes the configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMongo, c.Store.Driver)
	}
	if c.Auth.SecretKey == "" {
		return errors.New("config: SECRET_KEY must not be empty")
	}
	if c.Auth.TokenExpireMinutes <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.Auth.TokenExpireMinutes)
	}
	return nil
}

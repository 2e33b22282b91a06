package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type Config struct {
	Port     string `env:"PORT,       default=8080"`
	Env      string `env:"ENV,        default=development"`
	LogLevel string `env:"LOG_LEVEL,  default=info"`
	Backend  string `env:"DB_BACKEND, default=mongo"`

	JWT      JWTConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

type JWTConfig struct {
	// PEM-encoded RSA keys. The private key may be empty for deployments that
	// only validate tokens; the public key is always required.
	PrivateKey string        `env:"JWT_PRIVATE_KEY"`
	PublicKey  string        `env:"JWT_PUBLIC_KEY"`
	TTL        time.Duration `env:"JWT_TTL, default=1h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_service"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

type RedisConfig struct {
	// Addr left empty disables the identity cache.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig and
// rejects combinations the process cannot start with. Key material itself is
// parsed by the token service; a bad key aborts startup there.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.Backend {
	case BackendMongo, BackendPostgres:
	default:
		return nil, fmt.Errorf("config: unknown DB_BACKEND %q", cfg.Backend)
	}

	if cfg.Backend == BackendPostgres && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("config: POSTGRES_DSN is required with DB_BACKEND=postgres")
	}
	if cfg.JWT.PublicKey == "" {
		return nil, fmt.Errorf("config: JWT_PUBLIC_KEY is required")
	}

	return &cfg, nil
}

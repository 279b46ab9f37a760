package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	Version   string `env:"VERSION,   default=dev"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	StaticDir string `env:"STATIC_DIR"`
	BodyLimit string `env:"BODY_LIMIT, default=50M"`

	Auth      AuthConfig
	Resources ResourceConfig
	Notify    NotifyConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
}

type ResourceConfig struct {
	// DeletePolicy is the raw BATCH_DELETE_POLICY value; use Policy to parse it.
	DeletePolicy string `env:"BATCH_DELETE_POLICY, default=best_effort"`
	MaxBatch     int    `env:"MAX_BATCH_DELETE,    default=100"`
}

type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=4"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,       default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,        default=hrm"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL,  default=50"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,   default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit lookuper, used by tests.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := cfg.Resources.Policy(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Resources.MaxBatch <= 0 {
		return nil, fmt.Errorf("config: MAX_BATCH_DELETE must be positive")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	return &cfg, nil
}

// Policy parses the configured batch delete policy.
func (r ResourceConfig) Policy() (domain.DeletePolicy, error) {
	return domain.ParseDeletePolicy(r.DeletePolicy)
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

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

// InsecureJWTSecret is the fallback signing secret. It exists so the server
// starts on a developer machine and must never be used in production.
const InsecureJWTSecret = "your_jwt_secret_here"

type Config struct {
	Port      string        `env:"PORT,      default=5000"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, default=your_jwt_secret_here"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=2h"`

	// StatusRouteRequiresAuth guards PATCH /tasks/:id/status with the auth
	// middleware like every other task route.
	StatusRouteRequiresAuth bool `env:"STATUS_ROUTE_REQUIRES_AUTH, default=true"`

	ActivityWorkers int    `env:"ACTIVITY_WORKERS, default=4"`
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI             string `env:"MONGO_URI,              default=mongodb://localhost:27017"`
	Database        string `env:"MONGO_DB,               default=taskcollection"`
	UsersCollection string `env:"MONGO_USERS_COLLECTION, default=authusers"`
	TasksCollection string `env:"MONGO_TASKS_COLLECTION, default=alltasks"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether insecure defaults should be refused.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesInsecureSecret reports whether JWT_SECRET was left at its fallback.
func (c *Config) UsesInsecureSecret() bool {
	return c.JWTSecret == InsecureJWTSecret
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set in the environment
// win over the file.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper(), ".env")
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom is Load with an explicit lookuper and optional dotenv files.
// Missing dotenv files are ignored.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper, dotenvFiles ...string) (*Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}

	if cfg.IsProduction() && cfg.UsesInsecureSecret() {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	return &cfg, nil
}

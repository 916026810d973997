// Package config loads runtime settings from the environment and opens the
// configured store.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite    = "sqlite"
	DriverSQLiteCgo = "sqlite-cgo"
	DriverMongo     = "mongo"
)

type Config struct {
	Port    string `env:"PORT,default=8080"`
	GinMode string `env:"GIN_MODE,default=debug"`

	DBDriver      string        `env:"DB_DRIVER,default=sqlite"`
	DBSource      string        `env:"DB_SOURCE,default=food_ordering.db"`
	MongoURI      string        `env:"MONGO_URI"`
	MongoDatabase string        `env:"MONGO_DATABASE,default=food_ordering"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT,default=10s"`

	UploadDir   string `env:"UPLOAD_DIR,default=uploads"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB,default=10"`
	WebDir      string `env:"WEB_DIR,default=web"`

	JWTSecret string        `env:"JWT_SECRET,default=food_ordering_dev_secret"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=24h"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	CORSOrigins    string  `env:"CORS_ORIGINS,default=*"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=40"`
}

// Load reads .env when present and decodes the environment into a Config.
func Load() (*Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations the decoder cannot.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverSQLiteCgo:
		if c.DBSource == "" {
			return errors.New("DB_SOURCE is required for sqlite drivers")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when DB_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	return nil
}

// MaxUploadBytes is the request body limit for multipart uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

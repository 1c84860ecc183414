package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultJWTSecret matches the JWT_SECRET env-default below.
const DefaultJWTSecret = "your-secret-key-change-this-in-production"

type Config struct {
	Port           string `env:"PORT" env-default:"8080"`
	LogLevel       string `env:"LOG_LEVEL" env-default:"info"`
	LogPretty      bool   `env:"LOG_PRETTY" env-default:"false"`
	FrontendURL    string `env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" env-default:""`

	Redis Redis

	SessionTTL         time.Duration `env:"SESSION_TTL" env-default:"24h"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" env-default:"1h"`
	CleanupInterval    time.Duration `env:"CLEANUP_INTERVAL" env-default:"10m"`

	SearchDepth       int    `env:"SEARCH_DEPTH" env-default:"5"`
	DefaultDifficulty string `env:"DEFAULT_DIFFICULTY" env-default:"hard"`

	JWTSecret string        `env:"JWT_SECRET" env-default:"your-secret-key-change-this-in-production"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"24h"`
}

type Redis struct {
	Enabled  bool   `env:"REDIS_ENABLED" env-default:"true"`
	Addr     string `env:"REDIS_URL" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("[CONFIG] No .env file found")
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SearchDepth < 1 || c.SearchDepth > 10 {
		return fmt.Errorf("SEARCH_DEPTH must be between 1 and 10, got %d", c.SearchDepth)
	}
	if c.SessionTTL <= 0 || c.SessionIdleTimeout <= 0 || c.CleanupInterval <= 0 {
		return fmt.Errorf("session durations must be positive")
	}
	if c.JWTSecret == DefaultJWTSecret && c.LogLevel != "debug" {
		log.Warn().Msg("[CONFIG] JWT_SECRET is the public default, set it before deploying")
	}
	return nil
}

// Origins is the frontend URL plus the comma separated ALLOWED_ORIGINS.
func (c *Config) Origins() []string {
	origins := []string{c.FrontendURL}
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

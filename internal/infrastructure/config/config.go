package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	BackendURL  string        `env:"BACKEND_URL,  default=http://localhost:5000"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=30s"`

	Session SessionConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	// Backend selects the session slot implementation: file, redis or memory.
	Backend string `env:"SESSION_BACKEND, default=file"`
	// File overrides the session file location. Empty means the per-user
	// default under the OS config directory.
	File string `env:"SESSION_FILE"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

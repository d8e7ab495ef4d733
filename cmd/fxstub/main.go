// Command fxstub runs the local development backend the client defaults to.
package main

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/smarthomeo/fxclient/internal/stubserver"
	"github.com/smarthomeo/fxclient/pkg/logger"
)

type config struct {
	Port     string `env:"PORT,       default=5000"`
	Secret   string `env:"JWT_SECRET, default=dev-secret"`
	LogLevel string `env:"LOG_LEVEL,  default=info"`
}

func main() {
	var cfg config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	srv := stubserver.New(cfg.Secret, log)
	adminID := srv.SeedUser("admin", "254700000000", "admin123", true)
	log.Info().Str("admin_id", adminID).Msg("seeded admin account (phone 254700000000 / admin123)")

	e := srv.Handler()
	log.Info().Str("port", cfg.Port).Msg("stub backend listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

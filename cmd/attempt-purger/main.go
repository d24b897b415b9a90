package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	checkoutpostgres "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/persistence/postgres"
	platformconfig "github.com/Apurer/go-gin-storefront/internal/platform/config"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
)

type purgerConfig struct {
	PostgresDSN      string        `env:"POSTGRES_DSN"`
	AttemptRetention time.Duration `env:"ATTEMPT_RETENTION" envDefault:"720h"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var cfg purgerConfig
	if err := platformconfig.ParseEnv(&cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.AttemptRetention <= 0 {
		log.Fatal("ATTEMPT_RETENTION must be positive")
	}
	logger := platformobservability.NewLogger(os.Stdout, "storefront-attempt-purger", cfg.LogLevel)

	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge checkout attempts")
	}

	cutoff := time.Now().Add(-cfg.AttemptRetention)
	purged, err := checkoutpostgres.NewAttemptRepository(db).PurgeBefore(ctx, cutoff)
	if err != nil {
		logger.Error("failed to purge checkout attempts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("checkout attempt purge completed", slog.Int64("purged", purged), slog.Time("cutoff", cutoff))
}

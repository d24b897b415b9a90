package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PoolOption tunes the underlying database/sql pool.
type PoolOption func(*poolConfig)

type poolConfig struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

func WithMaxOpenConns(n int) PoolOption {
	return func(c *poolConfig) { c.maxOpen = n }
}

func WithMaxIdleConns(n int) PoolOption {
	return func(c *poolConfig) { c.maxIdle = n }
}

func WithConnMaxLifetime(d time.Duration) PoolOption {
	return func(c *poolConfig) { c.maxLifetime = d }
}

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
func Connect(ctx context.Context, dsn string, opts ...PoolOption) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	cfg := poolConfig{maxOpen: 10, maxIdle: 5, maxLifetime: 30 * time.Minute}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.maxOpen)
	sqlDB.SetMaxIdleConns(cfg.maxIdle)
	sqlDB.SetConnMaxLifetime(cfg.maxLifetime)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOptional dials PostgreSQL when a DSN is configured and returns the DB
// plus a cleanup function. A missing DSN or failed connection is logged and
// yields a nil DB so callers can fall back to in-memory adapters.
func ConnectOptional(ctx context.Context, dsn string, logger *slog.Logger, opts ...PoolOption) (*gorm.DB, func()) {
	if strings.TrimSpace(dsn) == "" {
		if logger != nil {
			logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		}
		return nil, func() {}
	}
	db, err := Connect(ctx, dsn, opts...)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		if logger != nil {
			logger.Warn("failed to unwrap postgres connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("postgres connection established")
	}
	return db, func() { _ = sqlDB.Close() }
}

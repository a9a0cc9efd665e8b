package database

import (
	"context"
	"fmt"
	"time"

	"quickcart/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	applicationName = "quickcart"

	pingAttempts   = 5
	initialBackoff = 500 * time.Millisecond
)

// NewPool creates a PostgreSQL connection pool and waits for the server to
// answer. Sessions run in UTC so created_at values round-trip unchanged.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	poolConfig.ConnConfig.RuntimeParams["timezone"] = "UTC"

	log := logger.With().Str("component", "database").Logger()
	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := waitForServer(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Msg("database connection pool created successfully")

	return pool, nil
}

// waitForServer pings until the server answers, doubling the pause between
// attempts. Containers started alongside the API are often still booting.
func waitForServer(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	backoff := initialBackoff

	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if attempt == pingAttempts {
			break
		}

		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", backoff).Msg("database not ready")

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", err)
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return fmt.Errorf("failed to ping database after %d attempts: %w", pingAttempts, err)
}

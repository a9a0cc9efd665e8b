package main

import (
	"context"
	"fmt"

	"quickcart/internal/config"
	"quickcart/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is the configuration, logger and database shared by the subcommands.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

func (e *env) close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quickcart",
		Short: "QuickCart maintenance tools",
		Long: `Maintenance commands for the QuickCart store: database migrations,
demo catalogue seeding and product exports.

Configuration is read from the environment (and a .env file when present),
using the same variables as the API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newExportProductsCmd(),
	)
	return root
}

// connect loads the tooling configuration and opens the database pool.
func connect(ctx context.Context) (*env, error) {
	cfg, err := config.LoadTooling()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &env{cfg: cfg, logger: logger, pool: pool}, nil
}

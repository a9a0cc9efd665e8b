package main

import (
	"quickcart/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Long:      `Runs the migrations embedded in the binary. Defaults to "up".`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			e, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			return database.Migrate(cmd.Context(), e.pool, command, e.logger)
		},
	}
}

package main

import (
	"fmt"

	"dsemotion/adapters/postgres"
	"dsemotion/internal/config"
	"dsemotion/internal/errors"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to DATABASE_URL and print their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.ConfigInvalid("DATABASE_URL is required")
			}

			// Open applies pending migrations.
			db, err := postgres.Open(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			status, err := postgres.NewMigrator(db.DB).Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range status {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(out, "  %s: %s\n", s.Name, state)
			}
			return nil
		},
	}
}

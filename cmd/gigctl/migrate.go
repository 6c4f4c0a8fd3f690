package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harx/gig-wizard-api/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the embedded schema migrations",
	}
	cmd.AddCommand(
		migrateStep("up", "Apply every pending migration", (*database.Migrator).Up),
		migrateStep("down", "Roll back the most recent migration", (*database.Migrator).Down),
		migrateStep("status", "Print the applied state of each migration", (*database.Migrator).Status),
	)
	return cmd
}

func migrateStep(use, short string, step func(*database.Migrator, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, cleanup, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			migrator, err := database.NewMigrator(e.db.DB)
			if err != nil {
				return err
			}
			if err := step(migrator, ctx); err != nil {
				return err
			}
			e.logger.Info("migrate finished", zap.String("step", use))
			return nil
		},
	}
}

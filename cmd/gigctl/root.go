package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harx/gig-wizard-api/pkg/config"
	"github.com/harx/gig-wizard-api/pkg/database"
	"github.com/harx/gig-wizard-api/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gigctl",
		Short:         "Maintenance commands for the gig wizard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newNormalizeDraftsCmd(), newParseCmd())
	return root
}

// env is what database-backed commands share.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
}

func openEnv(ctx context.Context) (*env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		_ = logr.Sync()
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	cleanup := func() {
		_ = db.Close()
		_ = logr.Sync()
	}
	return &env{cfg: cfg, logger: logr, db: db}, cleanup, nil
}

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/harx/gig-wizard-api/internal/repository"
	"github.com/harx/gig-wizard-api/internal/service"
)

func newNormalizeDraftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize-drafts",
		Short: "Resolve name-based skills and languages of every draft against the catalogs",
		Long: `Loads the skill and language catalogs, re-runs normalization for every draft gig and writes
back only the drafts that changed. Refuses to run when any catalog fails to load.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, cleanup, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			options, err := service.LoadKnownOptions()
			if err != nil {
				return err
			}
			metrics := service.NewMetricsService()
			validate := service.NewValidator()
			cacheSvc := service.NewCacheService(nil, metrics, e.cfg.Catalog.CacheTTL, e.logger, false)
			catalogs := service.NewCatalogService(repository.NewCatalogRepository(e.db), cacheSvc, metrics, validate, e.logger, e.cfg.Catalog.CacheTTL)
			gigs := service.NewGigService(repository.NewGigRepository(e.db), catalogs, options, nil, metrics, validate, e.logger)

			report, err := gigs.NormalizeDrafts(ctx)
			if err != nil {
				return err
			}
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(report)
		},
	}
}

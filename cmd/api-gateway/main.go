package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/harx/gig-wizard-api/api/swagger"
	"github.com/harx/gig-wizard-api/internal/handler"
	"github.com/harx/gig-wizard-api/internal/middleware"
	"github.com/harx/gig-wizard-api/internal/repository"
	"github.com/harx/gig-wizard-api/internal/service"
	"github.com/harx/gig-wizard-api/pkg/cache"
	"github.com/harx/gig-wizard-api/pkg/config"
	"github.com/harx/gig-wizard-api/pkg/database"
	"github.com/harx/gig-wizard-api/pkg/logger"
	corsmiddleware "github.com/harx/gig-wizard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/harx/gig-wizard-api/pkg/middleware/requestid"
	"github.com/harx/gig-wizard-api/pkg/storage"
)

// @title HARX Gig Wizard API
// @version 1.0.0
// @description Backend for the multi-step gig creation wizard
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	var cacheRepo service.CacheRepository
	var redisClient *redis.Client
	if cfg.Catalog.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logr, cacheRepo != nil)

	options, err := service.LoadKnownOptions()
	if err != nil {
		return fmt.Errorf("load wizard options: %w", err)
	}
	parser, err := service.LoadHeuristicParser()
	if err != nil {
		return fmt.Errorf("load parser keywords: %w", err)
	}

	catalogSvc := service.NewCatalogService(repository.NewCatalogRepository(db), cacheSvc, metrics, validate, logr, cfg.Catalog.CacheTTL)
	gigSvc := service.NewGigService(repository.NewGigRepository(db), catalogSvc, options, nil, metrics, validate, logr)

	assetFiles, err := storage.NewLocalStorage(cfg.Assets.StorageDir)
	if err != nil {
		return fmt.Errorf("prepare asset storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Assets.SignedURLSecret, cfg.Assets.SignedURLTTL)
	assetSvc := service.NewAssetService(gigSvc, repository.NewAssetRepository(db), assetFiles, signer, service.AssetConfig{
		MaxFileSize:  cfg.Assets.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Assets.AllowedMIMEs,
		BasePath:     cfg.APIPrefix,
	}, logr)

	briefFiles, err := storage.NewLocalStorage(cfg.Briefs.StorageDir)
	if err != nil {
		return fmt.Errorf("prepare brief storage: %w", err)
	}
	briefSvc := service.NewBriefService(gigSvc, briefFiles, signer, metrics, service.BriefConfig{
		Workers:  cfg.Briefs.WorkerConcurrency,
		Retries:  cfg.Briefs.WorkerRetries,
		BasePath: cfg.APIPrefix,
	}, logr)
	if cfg.Briefs.Enabled {
		gigSvc.SetBriefScheduler(briefSvc)
		briefSvc.Start(ctx)
		defer briefSvc.Stop()
	}

	var model service.SuggestionModel
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		suggester, err := service.NewGenAISuggester(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			logr.Warn("generative parser unavailable, using heuristic parser", zap.Error(err))
		} else {
			model = suggester
		}
	}
	suggestionSvc := service.NewSuggestionService(model, parser, gigSvc, cfg.AI.Timeout, validate, logr)

	checks := map[string]handler.HealthCheck{
		"postgres": func(ctx context.Context) error { return db.PingContext(ctx) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routeHandlers{
		catalog:     handler.NewCatalogHandler(catalogSvc, options),
		gig:         handler.NewGigHandler(gigSvc),
		schedule:    handler.NewScheduleHandler(service.NewScheduleService(gigSvc, options, validate, logr)),
		skill:       handler.NewSkillHandler(service.NewSkillService(gigSvc, validate, logr)),
		suggestion:  handler.NewSuggestionHandler(suggestionSvc),
		asset:       handler.NewAssetHandler(assetSvc),
		brief:       handler.NewBriefHandler(briefSvc),
		metrics:     metricsHandler,
		uploadLimit: cfg.Assets.MaxFileSizeBytes,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

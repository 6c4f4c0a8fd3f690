package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	"github.com/harx/gig-wizard-api/internal/repository"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

const catalogCachePrefix = "catalog:"

// CatalogRepository is the persistence surface the catalog service reads from.
type CatalogRepository interface {
	ListSkills(ctx context.Context, category models.SkillCategory) ([]models.CatalogSkill, error)
	CreateSkill(ctx context.Context, skill *models.CatalogSkill) error
	ListLanguages(ctx context.Context) ([]models.CatalogLanguage, error)
	ListTimezones(ctx context.Context) ([]models.Timezone, error)
	ListCurrencies(ctx context.Context) ([]models.Currency, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

// CatalogProvider hands out catalog snapshots to the services that normalize gig skills.
type CatalogProvider interface {
	Snapshot(ctx context.Context) models.Catalogs
}

// CatalogService serves the reference catalogs, caching list reads in Redis.
type CatalogService struct {
	repo      CatalogRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	ttl       time.Duration
}

// NewCatalogService constructs the service. cache and metrics may be nil.
func NewCatalogService(repo CatalogRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, ttl time.Duration) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		validator: ensureValidator(validate),
		logger:    logger,
		ttl:       ttl,
	}
}

func cachedList[T any](ctx context.Context, s *CatalogService, key string, load func(context.Context) ([]T, error)) ([]T, bool, error) {
	var items []T
	if s.cache.Get(ctx, catalogCachePrefix+key, &items) {
		return items, true, nil
	}
	start := time.Now()
	items, err := load(ctx)
	s.metrics.ObserveDBQuery("catalog_"+key, time.Since(start))
	if err != nil {
		return nil, false, err
	}
	if items == nil {
		items = []T{}
	}
	s.cache.Set(ctx, catalogCachePrefix+key, items, s.ttl)
	return items, false, nil
}

// Skills returns one category's catalog in source order and whether it came from cache.
func (s *CatalogService) Skills(ctx context.Context, category models.SkillCategory) ([]models.CatalogSkill, bool, error) {
	if !category.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown skill category %q", category))
	}
	items, hit, err := cachedList(ctx, s, "skills:"+string(category), func(ctx context.Context) ([]models.CatalogSkill, error) {
		return s.repo.ListSkills(ctx, category)
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load skill catalog")
	}
	return items, hit, nil
}

// Languages returns the language catalog.
func (s *CatalogService) Languages(ctx context.Context) ([]models.CatalogLanguage, bool, error) {
	items, hit, err := cachedList(ctx, s, "languages", s.repo.ListLanguages)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load language catalog")
	}
	return items, hit, nil
}

// Timezones returns the time zone lookup.
func (s *CatalogService) Timezones(ctx context.Context) ([]models.Timezone, bool, error) {
	items, hit, err := cachedList(ctx, s, "timezones", s.repo.ListTimezones)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timezones")
	}
	return items, hit, nil
}

// Currencies returns the currency lookup.
func (s *CatalogService) Currencies(ctx context.Context) ([]models.Currency, bool, error) {
	items, hit, err := cachedList(ctx, s, "currencies", s.repo.ListCurrencies)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load currencies")
	}
	return items, hit, nil
}

// Companies returns the company lookup.
func (s *CatalogService) Companies(ctx context.Context) ([]models.Company, bool, error) {
	items, hit, err := cachedList(ctx, s, "companies", s.repo.ListCompanies)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load companies")
	}
	return items, hit, nil
}

// Snapshot loads every skill category and the language catalog concurrently. A catalog that fails to
// load is returned with Loaded=false; callers then keep name-based entries instead of dropping them.
func (s *CatalogService) Snapshot(ctx context.Context) models.Catalogs {
	snapshot := models.Catalogs{Skills: make(map[models.SkillCategory]models.SkillCatalog, len(models.SkillCategories))}
	skillResults := make([]models.SkillCatalog, len(models.SkillCategories))

	var g errgroup.Group
	for i, category := range models.SkillCategories {
		i, category := i, category
		g.Go(func() error {
			items, _, err := s.Skills(ctx, category)
			if err != nil {
				s.logger.Warn("skill catalog unavailable", zap.String("category", string(category)), zap.Error(err))
			}
			s.metrics.RecordCatalogLoad("skills_"+string(category), err == nil)
			skillResults[i] = models.SkillCatalog{Category: category, Loaded: err == nil, Items: items}
			return nil
		})
	}
	g.Go(func() error {
		items, _, err := s.Languages(ctx)
		if err != nil {
			s.logger.Warn("language catalog unavailable", zap.Error(err))
		}
		s.metrics.RecordCatalogLoad("languages", err == nil)
		snapshot.Languages = models.LanguageCatalog{Loaded: err == nil, Items: items}
		return nil
	})
	_ = g.Wait()

	for _, catalog := range skillResults {
		snapshot.Skills[catalog.Category] = catalog
	}
	return snapshot
}

// CreateSkill adds a skill to a category catalog and drops that category's cached list.
func (s *CatalogService) CreateSkill(ctx context.Context, req dto.CreateCatalogSkillRequest) (*models.CatalogSkill, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid catalog skill payload")
	}

	skill := &models.CatalogSkill{Name: req.Name, Description: strings.TrimSpace(req.Description), Category: req.Category}
	if err := s.repo.CreateSkill(ctx, skill); err != nil {
		if errors.Is(err, repository.ErrDuplicateCatalogEntry) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s skill %q already exists", req.Category, req.Name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create catalog skill")
	}
	_ = s.cache.Invalidate(ctx, catalogCachePrefix+"skills:"+string(req.Category))

	s.logger.Info("catalog skill created", zap.String("id", skill.ID), zap.String("category", string(skill.Category)))
	return skill, nil
}

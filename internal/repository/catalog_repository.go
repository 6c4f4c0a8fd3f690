package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/harx/gig-wizard-api/internal/models"
)

// ErrDuplicateCatalogEntry is returned when a catalog insert violates a uniqueness constraint.
var ErrDuplicateCatalogEntry = errors.New("catalog entry already exists")

const uniqueViolation = "23505"

// CatalogRepository reads the reference catalogs the wizard resolves against.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListSkills returns one category's skills in catalog order.
func (r *CatalogRepository) ListSkills(ctx context.Context, category models.SkillCategory) ([]models.CatalogSkill, error) {
	const query = `SELECT id, name, description, category, position, created_at
FROM catalog_skills WHERE category = $1 ORDER BY position ASC, created_at ASC`
	var skills []models.CatalogSkill
	if err := r.db.SelectContext(ctx, &skills, query, string(category)); err != nil {
		return nil, fmt.Errorf("list %s skills: %w", category, err)
	}
	return skills, nil
}

// CreateSkill inserts a catalog skill at the end of its category.
func (r *CatalogRepository) CreateSkill(ctx context.Context, skill *models.CatalogSkill) error {
	if skill.ID == "" {
		skill.ID = models.NewObjectID()
	}
	skill.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO catalog_skills (id, name, description, category, position, created_at)
VALUES (:id, :name, :description, :category,
        (SELECT COALESCE(MAX(position), 0) + 1 FROM catalog_skills WHERE category = :category), :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, skill); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateCatalogEntry
		}
		return fmt.Errorf("create catalog skill: %w", err)
	}
	return nil
}

// ListLanguages returns the language catalog in display order.
func (r *CatalogRepository) ListLanguages(ctx context.Context) ([]models.CatalogLanguage, error) {
	const query = `SELECT id, name, code, position FROM catalog_languages ORDER BY position ASC, name ASC`
	var languages []models.CatalogLanguage
	if err := r.db.SelectContext(ctx, &languages, query); err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return languages, nil
}

// ListTimezones returns time zones ordered by UTC offset.
func (r *CatalogRepository) ListTimezones(ctx context.Context) ([]models.Timezone, error) {
	const query = `SELECT id, zone_name, country_code, country_name, offset_minutes
FROM catalog_timezones ORDER BY offset_minutes ASC, zone_name ASC`
	var zones []models.Timezone
	if err := r.db.SelectContext(ctx, &zones, query); err != nil {
		return nil, fmt.Errorf("list timezones: %w", err)
	}
	return zones, nil
}

// ListCurrencies returns every currency ordered by code.
func (r *CatalogRepository) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	const query = `SELECT code, name, symbol FROM catalog_currencies ORDER BY code ASC`
	var currencies []models.Currency
	if err := r.db.SelectContext(ctx, &currencies, query); err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	return currencies, nil
}

// ListCompanies returns companies ordered by name.
func (r *CatalogRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	const query = `SELECT id, name, industry FROM catalog_companies ORDER BY name ASC`
	var companies []models.Company
	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

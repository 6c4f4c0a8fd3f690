package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/harx/gig-wizard-api/internal/models"
)

// GigRepository persists gig drafts. Each wizard section is stored in its own JSONB column.
type GigRepository struct {
	db *sqlx.DB
}

// NewGigRepository constructs the repository.
func NewGigRepository(db *sqlx.DB) *GigRepository {
	return &GigRepository{db: db}
}

type gigRecord struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Category      string         `db:"category"`
	Status        string         `db:"status"`
	BasicInfo     types.JSONText `db:"basic_info"`
	Schedule      types.JSONText `db:"schedule"`
	Availability  types.JSONText `db:"availability"`
	Commission    types.JSONText `db:"commission"`
	Skills        types.JSONText `db:"skills"`
	Team          types.JSONText `db:"team"`
	Documentation types.JSONText `db:"documentation"`
	BriefStatus   string         `db:"brief_status"`
	BriefPath     sql.NullString `db:"brief_path"`
	PublishedAt   sql.NullTime   `db:"published_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

const gigColumns = `id, title, category, status, basic_info, schedule, availability, commission, skills, team,
documentation, brief_status, brief_path, published_at, created_at, updated_at`

func newGigRecord(gig *models.Gig) (*gigRecord, error) {
	rec := &gigRecord{
		ID:          gig.ID,
		Title:       gig.BasicInfo.Title,
		Category:    gig.BasicInfo.Category,
		Status:      string(gig.Status),
		BriefStatus: string(gig.BriefStatus),
		BriefPath:   sql.NullString{String: gig.BriefPath, Valid: gig.BriefPath != ""},
		CreatedAt:   gig.CreatedAt,
		UpdatedAt:   gig.UpdatedAt,
	}
	if gig.PublishedAt != nil {
		rec.PublishedAt = sql.NullTime{Time: *gig.PublishedAt, Valid: true}
	}
	sections := []struct {
		name  string
		value interface{}
		dest  *types.JSONText
	}{
		{"basic_info", gig.BasicInfo, &rec.BasicInfo},
		{"schedule", gig.Schedule, &rec.Schedule},
		{"availability", gig.Availability, &rec.Availability},
		{"commission", gig.Commission, &rec.Commission},
		{"skills", gig.Skills, &rec.Skills},
		{"team", gig.Team, &rec.Team},
		{"documentation", gig.Documentation, &rec.Documentation},
	}
	for _, section := range sections {
		raw, err := json.Marshal(section.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", section.name, err)
		}
		*section.dest = raw
	}
	return rec, nil
}

func (rec *gigRecord) toModel() (*models.Gig, error) {
	gig := &models.Gig{
		ID:          rec.ID,
		Status:      models.GigStatus(rec.Status),
		BriefStatus: models.BriefStatus(rec.BriefStatus),
		BriefPath:   rec.BriefPath.String,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.PublishedAt.Valid {
		published := rec.PublishedAt.Time
		gig.PublishedAt = &published
	}
	sections := []struct {
		name string
		raw  types.JSONText
		dest interface{}
	}{
		{"basic_info", rec.BasicInfo, &gig.BasicInfo},
		{"schedule", rec.Schedule, &gig.Schedule},
		{"availability", rec.Availability, &gig.Availability},
		{"commission", rec.Commission, &gig.Commission},
		{"skills", rec.Skills, &gig.Skills},
		{"team", rec.Team, &gig.Team},
		{"documentation", rec.Documentation, &gig.Documentation},
	}
	for _, section := range sections {
		if len(section.raw) == 0 {
			continue
		}
		if err := section.raw.Unmarshal(section.dest); err != nil {
			return nil, fmt.Errorf("decode %s of gig %s: %w", section.name, rec.ID, err)
		}
	}
	return gig, nil
}

// Create inserts a new gig, assigning its id and timestamps.
func (r *GigRepository) Create(ctx context.Context, gig *models.Gig) error {
	if gig.ID == "" {
		gig.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	gig.CreatedAt = now
	gig.UpdatedAt = now
	if gig.Status == "" {
		gig.Status = models.GigStatusDraft
	}
	if gig.BriefStatus == "" {
		gig.BriefStatus = models.BriefStatusNone
	}
	rec, err := newGigRecord(gig)
	if err != nil {
		return fmt.Errorf("create gig: %w", err)
	}
	const query = `INSERT INTO gigs (id, title, category, status, basic_info, schedule, availability, commission, skills, team,
documentation, brief_status, brief_path, published_at, created_at, updated_at)
VALUES (:id, :title, :category, :status, :basic_info, :schedule, :availability, :commission, :skills, :team,
:documentation, :brief_status, :brief_path, :published_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("create gig: %w", err)
	}
	return nil
}

// FindByID loads a gig. sql.ErrNoRows is returned when it does not exist.
func (r *GigRepository) FindByID(ctx context.Context, id string) (*models.Gig, error) {
	query := fmt.Sprintf(`SELECT %s FROM gigs WHERE id = $1`, gigColumns)
	var rec gigRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		return nil, err
	}
	return rec.toModel()
}

// List returns gig summaries matching the filter and the total count.
func (r *GigRepository) List(ctx context.Context, filter models.GigFilter) ([]models.GigSummary, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(category) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	base := "FROM gigs WHERE " + strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"title":      "title",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "updated_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	query := fmt.Sprintf(`SELECT id, title, category, status, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		base, column, order, size, (page-1)*size)
	var gigs []models.GigSummary
	if err := r.db.SelectContext(ctx, &gigs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list gigs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count gigs: %w", err)
	}
	return gigs, total, nil
}

// ListDrafts returns every draft gig, oldest first.
func (r *GigRepository) ListDrafts(ctx context.Context) ([]*models.Gig, error) {
	query := fmt.Sprintf(`SELECT %s FROM gigs WHERE status = $1 ORDER BY created_at ASC`, gigColumns)
	var records []gigRecord
	if err := r.db.SelectContext(ctx, &records, query, string(models.GigStatusDraft)); err != nil {
		return nil, fmt.Errorf("list draft gigs: %w", err)
	}
	gigs := make([]*models.Gig, 0, len(records))
	for i := range records {
		gig, err := records[i].toModel()
		if err != nil {
			return nil, err
		}
		gigs = append(gigs, gig)
	}
	return gigs, nil
}

// Update writes every section of the gig back and bumps updated_at.
func (r *GigRepository) Update(ctx context.Context, gig *models.Gig) error {
	gig.UpdatedAt = time.Now().UTC()
	rec, err := newGigRecord(gig)
	if err != nil {
		return fmt.Errorf("update gig: %w", err)
	}
	const query = `UPDATE gigs SET title = :title, category = :category, status = :status, basic_info = :basic_info,
schedule = :schedule, availability = :availability, commission = :commission, skills = :skills, team = :team,
documentation = :documentation, brief_status = :brief_status, brief_path = :brief_path,
published_at = :published_at, updated_at = :updated_at
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		return fmt.Errorf("update gig: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateBrief records the state of the PDF brief for a gig.
func (r *GigRepository) UpdateBrief(ctx context.Context, id string, status models.BriefStatus, path string) error {
	const query = `UPDATE gigs SET brief_status = $1, brief_path = NULLIF($2, ''), updated_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, string(status), path, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update gig brief: %w", err)
	}
	return nil
}

// Delete removes a gig and, by cascade, its assets.
func (r *GigRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gigs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gig: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

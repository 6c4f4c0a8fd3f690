package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

// GigRepository is the persistence surface for gigs.
type GigRepository interface {
	Create(ctx context.Context, gig *models.Gig) error
	FindByID(ctx context.Context, id string) (*models.Gig, error)
	List(ctx context.Context, filter models.GigFilter) ([]models.GigSummary, int, error)
	ListDrafts(ctx context.Context) ([]*models.Gig, error)
	Update(ctx context.Context, gig *models.Gig) error
	UpdateBrief(ctx context.Context, id string, status models.BriefStatus, path string) error
	Delete(ctx context.Context, id string) error
}

// BriefScheduler queues PDF brief generation for a published gig.
type BriefScheduler interface {
	Enqueue(gigID string) error
}

// GigMutation edits a loaded draft in place. It receives the catalog snapshot the write will be
// normalized against.
type GigMutation func(gig *models.Gig, catalogs models.Catalogs) error

// GigService owns the gig lifecycle. Every write goes through Mutate or CreateDraft so skills are
// normalized and availability is re-derived from the schedule before the row is saved.
type GigService struct {
	repo      GigRepository
	catalogs  CatalogProvider
	options   *KnownOptions
	briefs    BriefScheduler
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGigService constructs the service. briefs and metrics may be nil.
func NewGigService(repo GigRepository, catalogs CatalogProvider, options *KnownOptions, briefs BriefScheduler, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GigService{
		repo:      repo,
		catalogs:  catalogs,
		options:   options,
		briefs:    briefs,
		metrics:   metrics,
		validator: ensureValidator(validate),
		logger:    logger,
		now:       time.Now,
	}
}

// SetBriefScheduler attaches the brief queue once it exists. The queue needs the gig service to load
// gigs, so it is wired after construction.
func (s *GigService) SetBriefScheduler(briefs BriefScheduler) {
	s.briefs = briefs
}

// Options returns the picklists scoped to a gig.
func (s *GigService) Options() *KnownOptions {
	return s.options
}

// Create starts a new draft.
func (s *GigService) Create(ctx context.Context, req dto.CreateGigRequest) (*models.Gig, error) {
	if err := s.validator.Struct(req.BasicInfo); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid basic info")
	}
	gig := &models.Gig{BasicInfo: req.BasicInfo}
	if err := s.CreateDraft(ctx, gig); err != nil {
		return nil, err
	}
	return gig, nil
}

// CreateDraft normalizes and inserts a draft assembled by the caller.
func (s *GigService) CreateDraft(ctx context.Context, gig *models.Gig) error {
	gig.Status = models.GigStatusDraft
	gig.BriefStatus = models.BriefStatusNone
	gig.Schedule.Schedules = FlattenSchedules(GroupSchedules(gig.Schedule.Schedules))
	s.normalize(gig, s.catalogs.Snapshot(ctx))
	gig.Availability = MirrorAvailability(gig.Schedule)

	if err := s.repo.Create(ctx, gig); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create gig")
	}
	s.logger.Info("gig draft created", zap.String("gig_id", gig.ID))
	return nil
}

// Get loads a gig. Drafts holding name-based skill references are normalized on read and written
// back only when normalization changed something.
func (s *GigService) Get(ctx context.Context, id string) (*models.Gig, models.Catalogs, error) {
	gig, err := s.load(ctx, id)
	if err != nil {
		return nil, models.Catalogs{}, err
	}
	catalogs := s.catalogs.Snapshot(ctx)
	if gig.Status == models.GigStatusDraft && s.normalize(gig, catalogs) {
		if err := s.repo.Update(ctx, gig); err != nil {
			s.logger.Warn("failed to persist normalized gig", zap.String("gig_id", gig.ID), zap.Error(err))
		}
	}
	return gig, catalogs, nil
}

// Detail returns a gig with its grouped schedule, resolved skills and scoped options.
func (s *GigService) Detail(ctx context.Context, id string) (*dto.GigDetail, error) {
	gig, catalogs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.GigDetail{
		Gig:            gig,
		ScheduleGroups: DisplayGroups(GroupSchedules(gig.Schedule.Schedules)),
		Skills:         DescribeGigSkills(gig.Skills, catalogs),
		Options:        s.options.ForGig(gig),
		CatalogsLoaded: catalogs.Loaded(),
	}, nil
}

// List returns gig summaries with pagination metadata.
func (s *GigService) List(ctx context.Context, filter models.GigFilter) ([]models.GigSummary, *models.Pagination, error) {
	if filter.Status != "" && filter.Status != string(models.GigStatusDraft) && filter.Status != string(models.GigStatusPublished) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	gigs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list gigs")
	}
	if gigs == nil {
		gigs = []models.GigSummary{}
	}
	return gigs, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Mutate applies fn to a draft and saves it. Published gigs are rejected with ErrGigPublished.
func (s *GigService) Mutate(ctx context.Context, id string, fn GigMutation) (*models.Gig, models.Catalogs, error) {
	gig, err := s.load(ctx, id)
	if err != nil {
		return nil, models.Catalogs{}, err
	}
	if gig.Status == models.GigStatusPublished {
		return nil, models.Catalogs{}, appErrors.Clone(appErrors.ErrGigPublished, "published gigs cannot be modified")
	}
	catalogs := s.catalogs.Snapshot(ctx)
	if err := fn(gig, catalogs); err != nil {
		return nil, models.Catalogs{}, err
	}
	s.normalize(gig, catalogs)
	gig.Availability = MirrorAvailability(gig.Schedule)

	if err := s.repo.Update(ctx, gig); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.Catalogs{}, appErrors.Clone(appErrors.ErrNotFound, "gig not found")
		}
		return nil, models.Catalogs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save gig")
	}
	return gig, catalogs, nil
}

// UpdateSection replaces one wizard section with the decoded payload.
func (s *GigService) UpdateSection(ctx context.Context, id, section string, payload json.RawMessage) (*models.Gig, error) {
	apply, err := s.sectionDecoder(section, payload)
	if err != nil {
		return nil, err
	}
	gig, _, err := s.Mutate(ctx, id, func(gig *models.Gig, _ models.Catalogs) error {
		apply(gig)
		return nil
	})
	return gig, err
}

func (s *GigService) sectionDecoder(section string, payload json.RawMessage) (func(*models.Gig), error) {
	invalid := func(err error) error {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s section", section))
	}
	decode := func(dest interface{}) error {
		if len(payload) == 0 {
			return invalid(errors.New("empty payload"))
		}
		if err := json.Unmarshal(payload, dest); err != nil {
			return invalid(err)
		}
		return nil
	}

	switch section {
	case dto.SectionBasicInfo:
		var info models.BasicInfo
		if err := decode(&info); err != nil {
			return nil, err
		}
		info.Title = strings.TrimSpace(info.Title)
		if err := s.validator.Struct(info); err != nil {
			return nil, invalid(err)
		}
		return func(g *models.Gig) { g.BasicInfo = info }, nil
	case dto.SectionSchedule:
		var schedule models.ScheduleSection
		if err := decode(&schedule); err != nil {
			return nil, err
		}
		schedule.Schedules = FlattenSchedules(GroupSchedules(schedule.Schedules))
		if err := s.validator.Struct(schedule); err != nil {
			return nil, invalid(err)
		}
		return func(g *models.Gig) { g.Schedule = schedule }, nil
	case dto.SectionCommission:
		var commission models.Commission
		if err := decode(&commission); err != nil {
			return nil, err
		}
		commission.Currency = strings.ToUpper(strings.TrimSpace(commission.Currency))
		if err := s.validator.Struct(commission); err != nil {
			return nil, invalid(err)
		}
		return func(g *models.Gig) { g.Commission = commission }, nil
	case dto.SectionSkills:
		var skills models.SkillsSection
		if err := decode(&skills); err != nil {
			return nil, err
		}
		if err := validateSkillsSection(s.validator, skills); err != nil {
			return nil, invalid(err)
		}
		return func(g *models.Gig) { g.Skills = skills }, nil
	case dto.SectionTeam:
		var team models.TeamSection
		if err := decode(&team); err != nil {
			return nil, err
		}
		if err := s.validator.Struct(team); err != nil {
			return nil, invalid(err)
		}
		return func(g *models.Gig) { g.Team = team }, nil
	case dto.SectionDocumentation:
		var docs models.DocumentationSection
		if err := decode(&docs); err != nil {
			return nil, err
		}
		if err := s.validator.Struct(docs); err != nil {
			return nil, invalid(err)
		}
		return func(g *models.Gig) { g.Documentation = docs }, nil
	case dto.SectionAvailability:
		return nil, appErrors.Clone(appErrors.ErrValidation, "availability is derived from the schedule section")
	default:
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown section %q", section))
	}
}

func validateSkillsSection(v *validator.Validate, skills models.SkillsSection) error {
	for _, category := range models.SkillCategories {
		for _, entry := range skills.Collection(category) {
			if entry.Level < 1 || entry.Level > 5 {
				return fmt.Errorf("%s skill level %d out of range 1..5", category, entry.Level)
			}
		}
	}
	for _, language := range skills.Languages {
		if err := v.Struct(language); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a gig.
func (s *GigService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "gig not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete gig")
	}
	s.logger.Info("gig deleted", zap.String("gig_id", id))
	return nil
}

// Publish freezes a draft and queues its brief. Every catalog must be loaded so no name-based
// reference is published unresolved.
func (s *GigService) Publish(ctx context.Context, id string) (*models.Gig, error) {
	gig, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if gig.Status == models.GigStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrGigPublished, "gig is already published")
	}
	catalogs := s.catalogs.Snapshot(ctx)
	if !catalogs.Loaded() {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "catalogs are still loading, try again shortly")
	}
	s.normalize(gig, catalogs)
	gig.Availability = MirrorAvailability(gig.Schedule)

	var missing []string
	if strings.TrimSpace(gig.BasicInfo.Title) == "" {
		missing = append(missing, "title")
	}
	if len(gig.Schedule.Schedules) == 0 {
		missing = append(missing, "schedule")
	}
	if !hasCanonicalReference(gig.Skills) {
		missing = append(missing, "skills or languages")
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "gig is incomplete: missing "+strings.Join(missing, ", "))
	}

	now := s.now().UTC()
	gig.Status = models.GigStatusPublished
	gig.PublishedAt = &now
	if s.briefs != nil {
		gig.BriefStatus = models.BriefStatusQueued
	}
	if err := s.repo.Update(ctx, gig); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish gig")
	}
	s.metrics.RecordPublish()
	s.logger.Info("gig published", zap.String("gig_id", gig.ID))

	if s.briefs != nil {
		if err := s.briefs.Enqueue(gig.ID); err != nil {
			s.logger.Warn("brief enqueue failed", zap.String("gig_id", gig.ID), zap.Error(err))
			gig.BriefStatus = models.BriefStatusFailed
			_ = s.repo.UpdateBrief(ctx, gig.ID, models.BriefStatusFailed, "")
		}
	}
	return gig, nil
}

// NormalizeDrafts re-runs normalization over every draft and saves the ones that changed. Nothing is
// written while any catalog is unavailable.
func (s *GigService) NormalizeDrafts(ctx context.Context) (*dto.NormalizeReport, error) {
	report := &dto.NormalizeReport{Dropped: []string{}}
	catalogs := s.catalogs.Snapshot(ctx)
	if !catalogs.Loaded() {
		report.Skipped = true
		return report, appErrors.Clone(appErrors.ErrUnavailable, "catalogs unavailable, drafts left untouched")
	}
	drafts, err := s.repo.ListDrafts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list drafts")
	}
	for _, gig := range drafts {
		report.Scanned++
		result := s.normalizeDetailed(gig, catalogs)
		report.Pending += result.pending
		for _, name := range result.dropped {
			report.Dropped = append(report.Dropped, gig.ID+": "+name)
		}
		if !result.changed {
			continue
		}
		if err := s.repo.Update(ctx, gig); err != nil {
			return report, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save normalized draft")
		}
		report.Updated++
	}
	return report, nil
}

// RecordBrief stores the outcome of a brief export.
func (s *GigService) RecordBrief(ctx context.Context, id string, status models.BriefStatus, path string) error {
	if err := s.repo.UpdateBrief(ctx, id, status, path); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record brief")
	}
	return nil
}

func (s *GigService) load(ctx context.Context, id string) (*models.Gig, error) {
	gig, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "gig not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load gig")
	}
	return gig, nil
}

type gigNormalization struct {
	changed bool
	dropped []string
	pending int
}

func (s *GigService) normalize(gig *models.Gig, catalogs models.Catalogs) bool {
	return s.normalizeDetailed(gig, catalogs).changed
}

func (s *GigService) normalizeDetailed(gig *models.Gig, catalogs models.Catalogs) gigNormalization {
	var out gigNormalization
	for _, category := range models.SkillCategories {
		result := NormalizeSkills(gig.Skills.Collection(category), category, catalogs.Skill(category))
		s.metrics.RecordNormalization(string(category), result.Changed, len(result.Dropped))
		out.pending += result.Pending
		out.dropped = append(out.dropped, result.Dropped...)
		if result.Changed {
			gig.Skills.SetCollection(category, result.Entries)
			out.changed = true
		}
	}
	languages := NormalizeLanguages(gig.Skills.Languages, catalogs.Languages)
	s.metrics.RecordNormalization("languages", languages.Changed, len(languages.Dropped))
	out.dropped = append(out.dropped, languages.Dropped...)
	if languages.Changed {
		gig.Skills.Languages = languages.Entries
		out.changed = true
	}
	if out.changed {
		s.logger.Debug("gig skills normalized", zap.String("gig_id", gig.ID), zap.Strings("dropped", out.dropped))
	}
	return out
}

func hasCanonicalReference(skills models.SkillsSection) bool {
	for _, category := range models.SkillCategories {
		for _, entry := range skills.Collection(category) {
			if entry.Kind == models.CanonicalRef {
				return true
			}
		}
	}
	for _, language := range skills.Languages {
		if models.IsObjectID(language.Language) {
			return true
		}
	}
	return false
}

// DescribeGigSkills resolves every collection on a gig for display.
func DescribeGigSkills(skills models.SkillsSection, catalogs models.Catalogs) models.SkillsView {
	return models.SkillsView{
		Languages:    DescribeLanguages(skills.Languages, catalogs.Languages),
		Professional: DescribeSkills(skills.Professional, catalogs.Skill(models.SkillCategoryProfessional)),
		Technical:    DescribeSkills(skills.Technical, catalogs.Skill(models.SkillCategoryTechnical)),
		Soft:         DescribeSkills(skills.Soft, catalogs.Skill(models.SkillCategorySoft)),
	}
}

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

type gigRepoStub struct {
	gigs    map[string]*models.Gig
	updates int
	briefs  map[string]models.BriefStatus
	nextID  int
}

func newGigRepoStub(gigs ...*models.Gig) *gigRepoStub {
	stub := &gigRepoStub{gigs: make(map[string]*models.Gig), briefs: make(map[string]models.BriefStatus)}
	for _, gig := range gigs {
		stub.gigs[gig.ID] = cloneGig(gig)
	}
	return stub
}

func cloneGig(gig *models.Gig) *models.Gig {
	raw, _ := json.Marshal(gig)
	var out models.Gig
	_ = json.Unmarshal(raw, &out)
	out.BriefPath = gig.BriefPath
	return &out
}

func (s *gigRepoStub) Create(_ context.Context, gig *models.Gig) error {
	s.nextID++
	if gig.ID == "" {
		gig.ID = "gig-" + string(rune('0'+s.nextID))
	}
	s.gigs[gig.ID] = cloneGig(gig)
	return nil
}

func (s *gigRepoStub) FindByID(_ context.Context, id string) (*models.Gig, error) {
	gig, ok := s.gigs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneGig(gig), nil
}

func (s *gigRepoStub) List(context.Context, models.GigFilter) ([]models.GigSummary, int, error) {
	out := make([]models.GigSummary, 0, len(s.gigs))
	for _, gig := range s.gigs {
		out = append(out, models.GigSummary{ID: gig.ID, Title: gig.BasicInfo.Title, Status: gig.Status})
	}
	return out, len(out), nil
}

func (s *gigRepoStub) ListDrafts(context.Context) ([]*models.Gig, error) {
	var out []*models.Gig
	for _, gig := range s.gigs {
		if gig.Status == models.GigStatusDraft {
			out = append(out, cloneGig(gig))
		}
	}
	return out, nil
}

func (s *gigRepoStub) Update(_ context.Context, gig *models.Gig) error {
	if _, ok := s.gigs[gig.ID]; !ok {
		return sql.ErrNoRows
	}
	s.updates++
	s.gigs[gig.ID] = cloneGig(gig)
	return nil
}

func (s *gigRepoStub) UpdateBrief(_ context.Context, id string, status models.BriefStatus, path string) error {
	s.briefs[id] = status
	if gig, ok := s.gigs[id]; ok {
		gig.BriefStatus = status
		gig.BriefPath = path
	}
	return nil
}

func (s *gigRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := s.gigs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.gigs, id)
	return nil
}

type staticCatalogs struct {
	catalogs models.Catalogs
}

func (s staticCatalogs) Snapshot(context.Context) models.Catalogs {
	return s.catalogs
}

func loadedCatalogs() staticCatalogs {
	technical := adobeCatalog()
	return staticCatalogs{catalogs: models.Catalogs{
		Skills: map[models.SkillCategory]models.SkillCatalog{
			models.SkillCategoryProfessional: {Category: models.SkillCategoryProfessional, Loaded: true},
			models.SkillCategoryTechnical:    technical,
			models.SkillCategorySoft:         {Category: models.SkillCategorySoft, Loaded: true},
		},
		Languages: languageCatalog(),
	}}
}

type briefQueueStub struct {
	queued []string
	err    error
}

func (b *briefQueueStub) Enqueue(gigID string) error {
	if b.err != nil {
		return b.err
	}
	b.queued = append(b.queued, gigID)
	return nil
}

func newTestGigService(t *testing.T, repo *gigRepoStub, catalogs CatalogProvider, briefs BriefScheduler) *GigService {
	t.Helper()
	opts, err := LoadKnownOptions()
	require.NoError(t, err)
	return NewGigService(repo, catalogs, opts, briefs, NewMetricsService(), nil, nil)
}

func draftWithLegacySkills() *models.Gig {
	return &models.Gig{
		ID:        "gig-legacy",
		Status:    models.GigStatusDraft,
		BasicInfo: models.BasicInfo{Title: "Design support"},
		Schedule: models.ScheduleSection{
			Schedules: []models.DaySchedule{day(models.Monday, "09:00", "17:00")},
			TimeZones: []string{"Europe/Paris"},
		},
		Skills: models.SkillsSection{
			Technical: []models.SkillInput{models.BareSkillName("adobe illustrator"), models.BareSkillName("Quantum Macrame")},
			Languages: []models.LanguageEntry{{Language: "English", Proficiency: models.ProficiencyB2}},
		},
	}
}

func TestGigServiceCreateDraftNormalizesAndMirrors(t *testing.T) {
	repo := newGigRepoStub()
	svc := newTestGigService(t, repo, loadedCatalogs(), nil)

	gig := draftWithLegacySkills()
	gig.ID = ""
	gig.Schedule.Schedules = append(gig.Schedule.Schedules, day(models.Monday, "10:00", "18:00"))
	require.NoError(t, svc.CreateDraft(context.Background(), gig))

	stored := repo.gigs[gig.ID]
	require.NotNil(t, stored)
	assert.Equal(t, []models.SkillInput{models.CanonicalSkillRef("a1", 1, MigratedDetails)}, stored.Skills.Technical)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60001", stored.Skills.Languages[0].Language)
	assert.Equal(t, []models.DaySchedule{day(models.Monday, "09:00", "17:00")}, stored.Schedule.Schedules)
	assert.Equal(t, stored.Schedule.Schedules, stored.Availability.Schedule)
	assert.Equal(t, "Europe/Paris", stored.Availability.TimeZone)
}

func TestGigServiceGetWritesBackOnlyWhenChanged(t *testing.T) {
	repo := newGigRepoStub(draftWithLegacySkills())
	svc := newTestGigService(t, repo, loadedCatalogs(), nil)
	ctx := context.Background()

	_, _, err := svc.Get(ctx, "gig-legacy")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updates)

	_, _, err = svc.Get(ctx, "gig-legacy")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updates)
}

func TestGigServiceGetKeepsNamesWhileCatalogsLoad(t *testing.T) {
	repo := newGigRepoStub(draftWithLegacySkills())
	svc := newTestGigService(t, repo, staticCatalogs{}, nil)

	detail, err := svc.Detail(context.Background(), "gig-legacy")

	require.NoError(t, err)
	assert.Equal(t, 0, repo.updates)
	assert.Len(t, detail.Gig.Skills.Technical, 2)
	assert.False(t, detail.CatalogsLoaded)
	assert.Equal(t, models.ResolutionPending, detail.Skills.Technical[0].State)
}

func TestGigServiceGetNotFound(t *testing.T) {
	svc := newTestGigService(t, newGigRepoStub(), loadedCatalogs(), nil)

	_, _, err := svc.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestGigServiceUpdateSection(t *testing.T) {
	repo := newGigRepoStub(draftWithLegacySkills())
	svc := newTestGigService(t, repo, loadedCatalogs(), nil)
	ctx := context.Background()

	payload := json.RawMessage(`{"schedules":[{"day":"Tuesday","hours":{"start":"08:00","end":"16:00"}},{"day":"","hours":{"start":"08:00","end":"16:00"}}],"timeZones":["Africa/Casablanca"],"minimumHours":{"daily":4,"weekly":20,"monthly":80}}`)
	gig, err := svc.UpdateSection(ctx, "gig-legacy", dto.SectionSchedule, payload)
	require.NoError(t, err)
	assert.Equal(t, []models.DaySchedule{day(models.Tuesday, "08:00", "16:00")}, gig.Schedule.Schedules)
	assert.Equal(t, "Africa/Casablanca", repo.gigs["gig-legacy"].Availability.TimeZone)
	assert.Equal(t, 20, repo.gigs["gig-legacy"].Availability.MinimumHours.Weekly)

	_, err = svc.UpdateSection(ctx, "gig-legacy", dto.SectionSchedule, json.RawMessage(`{"schedules":[{"day":"Monday","hours":{"start":"9am","end":"17:00"}}]}`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateSection(ctx, "gig-legacy", dto.SectionAvailability, json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateSection(ctx, "gig-legacy", "salary", json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.UpdateSection(ctx, "gig-legacy", dto.SectionSkills, json.RawMessage(`{"technical":[{"skill":{"$oid":"a1"},"level":7}]}`))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestGigServicePublish(t *testing.T) {
	repo := newGigRepoStub(draftWithLegacySkills())
	briefs := &briefQueueStub{}
	svc := newTestGigService(t, repo, loadedCatalogs(), briefs)
	ctx := context.Background()

	gig, err := svc.Publish(ctx, "gig-legacy")
	require.NoError(t, err)
	assert.Equal(t, models.GigStatusPublished, gig.Status)
	assert.Equal(t, models.BriefStatusQueued, gig.BriefStatus)
	assert.NotNil(t, gig.PublishedAt)
	assert.Equal(t, []string{"gig-legacy"}, briefs.queued)

	_, err = svc.Publish(ctx, "gig-legacy")
	assert.True(t, errors.Is(err, appErrors.ErrGigPublished))

	_, err = svc.UpdateSection(ctx, "gig-legacy", dto.SectionBasicInfo, json.RawMessage(`{"title":"changed"}`))
	assert.True(t, errors.Is(err, appErrors.ErrGigPublished))
}

func TestGigServicePublishGuards(t *testing.T) {
	ctx := context.Background()

	loading := newTestGigService(t, newGigRepoStub(draftWithLegacySkills()), staticCatalogs{}, nil)
	_, err := loading.Publish(ctx, "gig-legacy")
	assert.True(t, errors.Is(err, appErrors.ErrUnavailable))

	empty := &models.Gig{ID: "gig-empty", Status: models.GigStatusDraft}
	incomplete := newTestGigService(t, newGigRepoStub(empty), loadedCatalogs(), nil)
	_, err = incomplete.Publish(ctx, "gig-empty")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPreconditionFailed))
	assert.Contains(t, err.Error(), "title")
}

func TestGigServicePublishMarksBriefFailedWhenQueueRejects(t *testing.T) {
	repo := newGigRepoStub(draftWithLegacySkills())
	svc := newTestGigService(t, repo, loadedCatalogs(), &briefQueueStub{err: errors.New("queue stopped")})

	gig, err := svc.Publish(context.Background(), "gig-legacy")

	require.NoError(t, err)
	assert.Equal(t, models.BriefStatusFailed, gig.BriefStatus)
	assert.Equal(t, models.BriefStatusFailed, repo.briefs["gig-legacy"])
}

func TestGigServiceNormalizeDrafts(t *testing.T) {
	clean := &models.Gig{ID: "gig-clean", Status: models.GigStatusDraft, Skills: models.SkillsSection{
		Technical: []models.SkillInput{models.CanonicalSkillRef("a2", 2, "ok")},
	}}
	repo := newGigRepoStub(draftWithLegacySkills(), clean)
	svc := newTestGigService(t, repo, loadedCatalogs(), nil)

	report, err := svc.NormalizeDrafts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, []string{"gig-legacy: Quantum Macrame"}, report.Dropped)

	skipped, err := newTestGigService(t, repo, staticCatalogs{}, nil).NormalizeDrafts(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrUnavailable))
	assert.True(t, skipped.Skipped)
}

func TestGigServiceListAndDelete(t *testing.T) {
	repo := newGigRepoStub(draftWithLegacySkills())
	svc := newTestGigService(t, repo, loadedCatalogs(), nil)
	ctx := context.Background()

	gigs, pagination, err := svc.List(ctx, models.GigFilter{})
	require.NoError(t, err)
	assert.Len(t, gigs, 1)
	assert.Equal(t, 20, pagination.PageSize)

	_, _, err = svc.List(ctx, models.GigFilter{Status: "archived"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	require.NoError(t, svc.Delete(ctx, "gig-legacy"))
	assert.True(t, errors.Is(svc.Delete(ctx, "gig-legacy"), appErrors.ErrNotFound))
}

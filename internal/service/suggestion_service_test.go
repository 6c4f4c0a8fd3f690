package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

type suggestionModelStub struct {
	suggestion *models.GigSuggestion
	err        error
	calls      int
}

func (s *suggestionModelStub) Suggest(ctx context.Context, _ string) (*models.GigSuggestion, error) {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a deadline")
	}
	return s.suggestion, s.err
}

func newTestSuggestionService(t *testing.T, model SuggestionModel, drafts DraftCreator) *SuggestionService {
	t.Helper()
	return NewSuggestionService(model, newTestParser(t), drafts, time.Second, nil, nil)
}

func TestSuggestionServiceUsesModel(t *testing.T) {
	model := &suggestionModelStub{suggestion: &models.GigSuggestion{
		Title:     "  Inbound agents ",
		Schedules: []models.DaySchedule{{Day: "monday", Hours: models.TimeRange{Start: "9:00", End: "17:00"}}, {Day: "Funday", Hours: models.TimeRange{Start: "09:00", End: "17:00"}}},
		Languages: []models.SuggestedLanguage{{Name: "English", Proficiency: "c1"}, {Name: "French", Proficiency: "fluent"}},
		Skills:    map[models.SkillCategory][]string{models.SkillCategoryTechnical: {"Salesforce", " "}, "magic": {"x"}},
		Source:    models.SuggestionSourceAI,
	}}
	svc := newTestSuggestionService(t, model, nil)

	got, err := svc.Suggest(context.Background(), dto.SuggestionRequest{Text: "We need inbound agents on Mondays"})

	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, models.SuggestionSourceAI, got.Source)
	assert.Equal(t, "Inbound agents", got.Title)
	assert.Equal(t, "We need inbound agents on Mondays", got.Description)
	assert.Equal(t, []models.DaySchedule{day(models.Monday, "09:00", "17:00")}, got.Schedules)
	assert.Equal(t, []models.SuggestedLanguage{{Name: "English", Proficiency: "C1"}, {Name: "French", Proficiency: "B2"}}, got.Languages)
	assert.Equal(t, map[models.SkillCategory][]string{models.SkillCategoryTechnical: {"Salesforce"}}, got.Skills)
}

func TestSuggestionServiceFallsBackToHeuristics(t *testing.T) {
	model := &suggestionModelStub{err: errors.New("quota exceeded")}
	svc := newTestSuggestionService(t, model, nil)

	got, err := svc.Suggest(context.Background(), dto.SuggestionRequest{Text: sampleDescription})

	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, models.SuggestionSourceHeuristic, got.Source)
	assert.Equal(t, "Outbound Sales", got.Category)
}

func TestSuggestionServiceWithoutModel(t *testing.T) {
	svc := newTestSuggestionService(t, nil, nil)

	got, err := svc.Suggest(context.Background(), dto.SuggestionRequest{Text: sampleDescription})
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionSourceHeuristic, got.Source)

	_, err = svc.Suggest(context.Background(), dto.SuggestionRequest{Text: "short"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSuggestionServiceCreateDraft(t *testing.T) {
	repo := newGigRepoStub()
	svc := newTestSuggestionService(t, nil, newTestGigService(t, repo, loadedCatalogs(), nil))

	gig, err := svc.CreateDraft(context.Background(), models.GigSuggestion{
		Title: "Design support",
		Schedules: []models.DaySchedule{
			day(models.Monday, "09:00", "17:00"),
			day(models.Monday, "10:00", "18:00"),
			day(models.Tuesday, "09:00", "17:00"),
		},
		TimeZones: []string{"Europe/Paris"},
		Skills:    map[models.SkillCategory][]string{models.SkillCategoryTechnical: {"adobe illustrator", "Unknown Tool"}},
		Languages: []models.SuggestedLanguage{{Name: "English", Proficiency: "B2"}},
		Source:    models.SuggestionSourceHeuristic,
	})

	require.NoError(t, err)
	stored := repo.gigs[gig.ID]
	require.NotNil(t, stored)
	assert.Equal(t, models.GigStatusDraft, stored.Status)
	assert.Equal(t, []models.DaySchedule{day(models.Monday, "09:00", "17:00"), day(models.Tuesday, "09:00", "17:00")}, stored.Schedule.Schedules)
	assert.Equal(t, stored.Schedule.Schedules, stored.Availability.Schedule)
	assert.Equal(t, []models.SkillInput{models.CanonicalSkillRef("a1", 1, MigratedDetails)}, stored.Skills.Technical)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60001", stored.Skills.Languages[0].Language)
}

func TestSuggestionServiceCreateDraftRequiresTitle(t *testing.T) {
	svc := newTestSuggestionService(t, nil, newTestGigService(t, newGigRepoStub(), loadedCatalogs(), nil))

	_, err := svc.CreateDraft(context.Background(), models.GigSuggestion{Title: "  "})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestDecodeSuggestion(t *testing.T) {
	got, err := DecodeSuggestion("```json\n{\"title\":\"Closers\",\"skills\":{\"soft\":[\"Empathy\"]},\"teamSize\":4}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Closers", got.Title)
	assert.Equal(t, []string{"Empathy"}, got.Skills[models.SkillCategorySoft])
	assert.Equal(t, 4, got.TeamSize)
	assert.Equal(t, models.SuggestionSourceAI, got.Source)

	_, err = DecodeSuggestion("not json")
	assert.Error(t, err)
	_, err = DecodeSuggestion("")
	assert.Error(t, err)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

// DraftCreator stores a new draft after normalizing it.
type DraftCreator interface {
	CreateDraft(ctx context.Context, gig *models.Gig) error
}

// SuggestionService turns free text into gig suggestions and suggestions into drafts.
type SuggestionService struct {
	model     SuggestionModel
	parser    *HeuristicParser
	drafts    DraftCreator
	timeout   time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSuggestionService constructs the service. model may be nil, in which case only the heuristic
// parser is used.
func NewSuggestionService(model SuggestionModel, parser *HeuristicParser, drafts DraftCreator, timeout time.Duration, validate *validator.Validate, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &SuggestionService{
		model:     model,
		parser:    parser,
		drafts:    drafts,
		timeout:   timeout,
		validator: ensureValidator(validate),
		logger:    logger,
	}
}

// Suggest reads the description with the AI model when available and falls back to the heuristic
// parser when the model is disabled or fails.
func (s *SuggestionService) Suggest(ctx context.Context, req dto.SuggestionRequest) (*models.GigSuggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suggestion request")
	}
	text := strings.TrimSpace(req.Text)

	if s.model != nil {
		aiCtx, cancel := context.WithTimeout(ctx, s.timeout)
		suggestion, err := s.model.Suggest(aiCtx, text)
		cancel()
		if err == nil {
			if suggestion.Description == "" {
				suggestion.Description = text
			}
			SanitizeSuggestion(suggestion)
			return suggestion, nil
		}
		s.logger.Warn("ai suggestion failed, using heuristic parser", zap.Error(err))
	}

	suggestion := s.parser.Parse(text)
	SanitizeSuggestion(&suggestion)
	return &suggestion, nil
}

// CreateDraft creates a draft from a suggestion. Suggested schedules are grouped so a day named twice
// keeps its first hours, and skill names are resolved against the catalogs by the gig service.
func (s *SuggestionService) CreateDraft(ctx context.Context, suggestion models.GigSuggestion) (*models.Gig, error) {
	SanitizeSuggestion(&suggestion)
	if strings.TrimSpace(suggestion.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "suggestion has no title")
	}

	gig := &models.Gig{
		BasicInfo: models.BasicInfo{
			Title:       suggestion.Title,
			Description: suggestion.Description,
			Category:    suggestion.Category,
			Seniority:   suggestion.Seniority,
		},
		Schedule: models.ScheduleSection{
			Schedules:    suggestion.Schedules,
			TimeZones:    suggestion.TimeZones,
			Flexibility:  []string{},
			MinimumHours: suggestion.MinimumHours,
		},
		Commission: suggestion.Commission,
		Team:       models.TeamSection{Size: suggestion.TeamSize, Structure: []models.TeamRole{}, Territories: []string{}},
	}
	for _, category := range models.SkillCategories {
		entries := make([]models.SkillInput, 0, len(suggestion.Skills[category]))
		for _, name := range suggestion.Skills[category] {
			entries = append(entries, models.NamedSkillRef(name, models.DefaultSkillLevel, ""))
		}
		gig.Skills.SetCollection(category, entries)
	}
	gig.Skills.Languages = make([]models.LanguageEntry, 0, len(suggestion.Languages))
	for _, lang := range suggestion.Languages {
		gig.Skills.Languages = append(gig.Skills.Languages, models.LanguageEntry{Language: lang.Name, Proficiency: lang.Proficiency})
	}

	if err := s.drafts.CreateDraft(ctx, gig); err != nil {
		return nil, err
	}
	s.logger.Info("draft created from suggestion", zap.String("gig_id", gig.ID), zap.String("source", suggestion.Source))
	return gig, nil
}

// normalizeClock accepts H:MM or HH:MM and returns HH:MM.
func normalizeClock(value string) (string, bool) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	return parsed.Format("15:04"), true
}

// SanitizeSuggestion trims text fields, groups the schedule and drops values the wizard cannot hold.
func SanitizeSuggestion(suggestion *models.GigSuggestion) {
	suggestion.Title = strings.TrimSpace(suggestion.Title)
	if len([]rune(suggestion.Title)) > maxSuggestedTitle {
		suggestion.Title = suggestedTitle(suggestion.Title)
	}
	suggestion.Description = strings.TrimSpace(suggestion.Description)
	suggestion.Category = strings.TrimSpace(suggestion.Category)
	if suggestion.Seniority.YearsExperience < 0 || suggestion.Seniority.YearsExperience > 60 {
		suggestion.Seniority.YearsExperience = 0
	}
	title := cases.Title(language.English)
	schedules := make([]models.DaySchedule, 0, len(suggestion.Schedules))
	for _, entry := range suggestion.Schedules {
		entry.Day = title.String(strings.TrimSpace(entry.Day))
		start, okStart := normalizeClock(entry.Hours.Start)
		end, okEnd := normalizeClock(entry.Hours.End)
		if !models.IsWeekday(entry.Day) || !okStart || !okEnd {
			continue
		}
		entry.Hours = models.TimeRange{Start: start, End: end}
		schedules = append(schedules, entry)
	}
	suggestion.Schedules = FlattenSchedules(GroupSchedules(schedules))
	if suggestion.TimeZones == nil {
		suggestion.TimeZones = []string{}
	}

	skills := make(map[models.SkillCategory][]string, len(models.SkillCategories))
	for category, names := range suggestion.Skills {
		if !category.Valid() {
			continue
		}
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				skills[category] = append(skills[category], name)
			}
		}
	}
	suggestion.Skills = skills

	languages := make([]models.SuggestedLanguage, 0, len(suggestion.Languages))
	for _, lang := range suggestion.Languages {
		lang.Name = strings.TrimSpace(lang.Name)
		if lang.Name == "" {
			continue
		}
		lang.Proficiency = strings.ToUpper(strings.TrimSpace(lang.Proficiency))
		switch lang.Proficiency {
		case models.ProficiencyA1, models.ProficiencyA2, models.ProficiencyB1, models.ProficiencyB2, models.ProficiencyC1, models.ProficiencyC2:
		default:
			lang.Proficiency = models.ProficiencyB2
		}
		languages = append(languages, lang)
	}
	suggestion.Languages = languages

	suggestion.Commission.Currency = strings.ToUpper(strings.TrimSpace(suggestion.Commission.Currency))
	if len(suggestion.Commission.Currency) != 3 {
		suggestion.Commission.Currency = ""
	}
	if suggestion.TeamSize < 0 {
		suggestion.TeamSize = 0
	}
}

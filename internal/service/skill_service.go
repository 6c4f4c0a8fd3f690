package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

// SkillService edits the skills section of a draft one entry at a time.
type SkillService struct {
	gigs      GigStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSkillService constructs the service.
func NewSkillService(gigs GigStore, validate *validator.Validate, logger *zap.Logger) *SkillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillService{gigs: gigs, validator: ensureValidator(validate), logger: logger}
}

// View resolves every collection of a gig for display.
func (s *SkillService) View(ctx context.Context, gigID string) (*dto.SkillsResponse, error) {
	gig, catalogs, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return nil, err
	}
	return skillsResponse(gig, catalogs), nil
}

// Add resolves and appends a skill. A skill already in the collection yields ErrDuplicateSkill.
func (s *SkillService) Add(ctx context.Context, gigID, category string, req dto.AddSkillRequest) (*dto.SkillsResponse, error) {
	cat, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid skill")
	}
	level := req.Level
	if level == 0 {
		level = models.DefaultSkillLevel
	}
	input := models.NamedSkillRef(strings.TrimSpace(req.Skill), level, req.Details)
	if models.IsObjectID(input.Name) {
		input = models.CanonicalSkillRef(input.Name, level, req.Details)
	}

	gig, catalogs, err := s.gigs.Mutate(ctx, gigID, func(gig *models.Gig, catalogs models.Catalogs) error {
		current := NormalizeSkills(gig.Skills.Collection(cat), cat, catalogs.Skill(cat)).Entries
		updated, err := AddSkill(current, input, cat, catalogs.Skill(cat))
		if err != nil {
			return err
		}
		gig.Skills.SetCollection(cat, updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("skill added", zap.String("gig_id", gigID), zap.String("category", string(cat)), zap.String("skill", req.Skill))
	return skillsResponse(gig, catalogs), nil
}

// Update changes the level or details of the entry referencing oid.
func (s *SkillService) Update(ctx context.Context, gigID, category, oid string, req dto.UpdateSkillRequest) (*dto.SkillsResponse, error) {
	cat, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid skill update")
	}
	gig, catalogs, err := s.gigs.Mutate(ctx, gigID, func(gig *models.Gig, _ models.Catalogs) error {
		collection := gig.Skills.Collection(cat)
		index := indexOfSkill(collection, oid)
		if index < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("skill %s not selected", oid))
		}
		updated := append([]models.SkillInput(nil), collection...)
		if req.Level != nil {
			updated[index].Level = *req.Level
		}
		if req.Details != nil {
			updated[index].Details = *req.Details
		}
		gig.Skills.SetCollection(cat, updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return skillsResponse(gig, catalogs), nil
}

// Remove deletes the entry referencing oid. Entries still held by name can be removed by name.
func (s *SkillService) Remove(ctx context.Context, gigID, category, oid string) (*dto.SkillsResponse, error) {
	cat, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	gig, catalogs, err := s.gigs.Mutate(ctx, gigID, func(gig *models.Gig, _ models.Catalogs) error {
		collection := gig.Skills.Collection(cat)
		index := indexOfSkill(collection, oid)
		if index < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("skill %s not selected", oid))
		}
		updated := make([]models.SkillInput, 0, len(collection)-1)
		updated = append(updated, collection[:index]...)
		gig.Skills.SetCollection(cat, append(updated, collection[index+1:]...))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return skillsResponse(gig, catalogs), nil
}

// AddLanguage resolves and appends a language. A language already selected yields ErrDuplicateLanguage.
func (s *SkillService) AddLanguage(ctx context.Context, gigID string, req dto.AddLanguageRequest) (*dto.SkillsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid language")
	}
	entry := models.LanguageEntry{Language: strings.TrimSpace(req.Language), Proficiency: req.Proficiency}
	gig, catalogs, err := s.gigs.Mutate(ctx, gigID, func(gig *models.Gig, catalogs models.Catalogs) error {
		current := NormalizeLanguages(gig.Skills.Languages, catalogs.Languages).Entries
		updated, err := AddLanguage(current, entry, catalogs.Languages)
		if err != nil {
			return err
		}
		gig.Skills.Languages = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return skillsResponse(gig, catalogs), nil
}

// RemoveLanguage deletes a language by catalog id or by the name it is still held under.
func (s *SkillService) RemoveLanguage(ctx context.Context, gigID, language string) (*dto.SkillsResponse, error) {
	gig, catalogs, err := s.gigs.Mutate(ctx, gigID, func(gig *models.Gig, _ models.Catalogs) error {
		for i, entry := range gig.Skills.Languages {
			if entry.Language == language {
				updated := make([]models.LanguageEntry, 0, len(gig.Skills.Languages)-1)
				updated = append(updated, gig.Skills.Languages[:i]...)
				gig.Skills.Languages = append(updated, gig.Skills.Languages[i+1:]...)
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("language %s not selected", language))
	})
	if err != nil {
		return nil, err
	}
	return skillsResponse(gig, catalogs), nil
}

// Normalize rewrites every name-based reference on a draft and reports what changed. It refuses to
// run while a catalog is unavailable so nothing is dropped against a partial catalog.
func (s *SkillService) Normalize(ctx context.Context, gigID string) (*dto.NormalizeReport, error) {
	report := &dto.NormalizeReport{Scanned: 1, Dropped: []string{}}
	_, _, err := s.gigs.Mutate(ctx, gigID, func(gig *models.Gig, catalogs models.Catalogs) error {
		if !catalogs.Loaded() {
			return appErrors.Clone(appErrors.ErrUnavailable, "catalogs are still loading, try again shortly")
		}
		changed := false
		for _, cat := range models.SkillCategories {
			result := NormalizeSkills(gig.Skills.Collection(cat), cat, catalogs.Skill(cat))
			report.Dropped = append(report.Dropped, result.Dropped...)
			report.Pending += result.Pending
			if result.Changed {
				gig.Skills.SetCollection(cat, result.Entries)
				changed = true
			}
		}
		languages := NormalizeLanguages(gig.Skills.Languages, catalogs.Languages)
		report.Dropped = append(report.Dropped, languages.Dropped...)
		if languages.Changed {
			gig.Skills.Languages = languages.Entries
			changed = true
		}
		if changed {
			report.Updated = 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("gig skills normalized", zap.String("gig_id", gigID), zap.Int("dropped", len(report.Dropped)))
	return report, nil
}

func skillsResponse(gig *models.Gig, catalogs models.Catalogs) *dto.SkillsResponse {
	return &dto.SkillsResponse{
		GigID:          gig.ID,
		Skills:         DescribeGigSkills(gig.Skills, catalogs),
		CatalogsLoaded: catalogs.Loaded(),
	}
}

func parseCategory(category string) (models.SkillCategory, error) {
	cat := models.SkillCategory(strings.ToLower(strings.TrimSpace(category)))
	if !cat.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown skill category %q", category))
	}
	return cat, nil
}

func indexOfSkill(collection []models.SkillInput, ref string) int {
	for i, entry := range collection {
		switch entry.Kind {
		case models.CanonicalRef:
			if entry.OID == ref {
				return i
			}
		default:
			if strings.EqualFold(entry.Name, ref) {
				return i
			}
		}
	}
	return -1
}

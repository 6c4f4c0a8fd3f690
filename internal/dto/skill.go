package dto

import "github.com/harx/gig-wizard-api/internal/models"

// AddSkillRequest adds a skill to one collection. Skill is a catalog id or a skill name.
type AddSkillRequest struct {
	Skill   string `json:"skill" validate:"required,max=200"`
	Level   int    `json:"level" validate:"omitempty,min=1,max=5"`
	Details string `json:"details" validate:"max=500"`
}

// UpdateSkillRequest changes the level or details of a selected skill.
type UpdateSkillRequest struct {
	Level   *int    `json:"level" validate:"omitempty,min=1,max=5"`
	Details *string `json:"details" validate:"omitempty,max=500"`
}

// AddLanguageRequest adds a language by catalog id or name.
type AddLanguageRequest struct {
	Language    string `json:"language" validate:"required"`
	Proficiency string `json:"proficiency" validate:"required,oneof=A1 A2 B1 B2 C1 C2"`
}

// SkillsResponse is the display view of a gig's skills.
type SkillsResponse struct {
	GigID          string            `json:"gigId"`
	Skills         models.SkillsView `json:"skills"`
	CatalogsLoaded bool              `json:"catalogsLoaded"`
}

package dto

import "github.com/harx/gig-wizard-api/internal/models"

// CreateCatalogSkillRequest adds a skill to a category catalog.
type CreateCatalogSkillRequest struct {
	Name        string               `json:"name" validate:"required,max=120"`
	Description string               `json:"description" validate:"max=500"`
	Category    models.SkillCategory `json:"category" validate:"required,skillcategory"`
}

// CatalogSkillsResponse is one category's catalog with its loading state.
type CatalogSkillsResponse struct {
	Category models.SkillCategory  `json:"category"`
	Items    []models.CatalogSkill `json:"items"`
}

package dto

import "github.com/harx/gig-wizard-api/internal/models"

// Gig section names accepted by the section update endpoint.
const (
	SectionBasicInfo     = "basic-info"
	SectionSchedule      = "schedule"
	SectionCommission    = "commission"
	SectionSkills        = "skills"
	SectionTeam          = "team"
	SectionDocumentation = "documentation"
	SectionAvailability  = "availability"
)

// CreateGigRequest starts a new draft. Every field is optional.
type CreateGigRequest struct {
	BasicInfo models.BasicInfo `json:"basicInfo"`
}

// GigDetail is a gig with the derived views the wizard renders.
type GigDetail struct {
	Gig            *models.Gig              `json:"gig"`
	ScheduleGroups []models.GroupedSchedule `json:"scheduleGroups"`
	Skills         models.SkillsView        `json:"skills"`
	Options        models.WizardOptions     `json:"options"`
	CatalogsLoaded bool                     `json:"catalogsLoaded"`
}

// NormalizeReport summarises a normalization pass over one or more gigs.
type NormalizeReport struct {
	Scanned int      `json:"scanned"`
	Updated int      `json:"updated"`
	Dropped []string `json:"dropped"`
	Pending int      `json:"pending"`
	Skipped bool     `json:"skipped"`
}

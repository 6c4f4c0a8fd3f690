package models

import "time"

// GigStatus tracks the wizard lifecycle of a gig.
type GigStatus string

const (
	GigStatusDraft     GigStatus = "draft"
	GigStatusPublished GigStatus = "published"
)

// BriefStatus tracks PDF brief generation for published gigs.
type BriefStatus string

const (
	BriefStatusNone   BriefStatus = "none"
	BriefStatusQueued BriefStatus = "queued"
	BriefStatusReady  BriefStatus = "ready"
	BriefStatusFailed BriefStatus = "failed"
)

// Seniority captures the expected experience for the role.
type Seniority struct {
	Level           string `json:"level"`
	YearsExperience int    `json:"yearsExperience" validate:"min=0,max=60"`
}

// BasicInfo is the first wizard section.
type BasicInfo struct {
	Title           string    `json:"title" validate:"max=200"`
	Description     string    `json:"description" validate:"max=10000"`
	Category        string    `json:"category"`
	Seniority       Seniority `json:"seniority"`
	DestinationZone string    `json:"destinationZone"`
	CompanyID       string    `json:"companyId"`
}

// ScheduleSection holds the flat per-day schedule that is persisted.
type ScheduleSection struct {
	Schedules    []DaySchedule `json:"schedules" validate:"dive"`
	TimeZones    []string      `json:"timeZones"`
	Flexibility  []string      `json:"flexibility"`
	MinimumHours MinimumHours  `json:"minimumHours"`
}

// AvailabilitySection mirrors the schedule section; it is never edited directly.
type AvailabilitySection struct {
	Schedule     []DaySchedule `json:"schedule"`
	TimeZone     string        `json:"timeZone"`
	Flexibility  []string      `json:"flexibility"`
	MinimumHours MinimumHours  `json:"minimumHours"`
}

// MinimumVolume is the commission threshold a rep must reach.
type MinimumVolume struct {
	Amount float64 `json:"amount" validate:"min=0"`
	Period string  `json:"period"`
	Unit   string  `json:"unit"`
}

// TransactionCommission is paid per closed transaction.
type TransactionCommission struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount" validate:"min=0"`
}

// Commission is the compensation section.
type Commission struct {
	Base                  string                `json:"base"`
	BaseAmount            float64               `json:"baseAmount" validate:"min=0"`
	Bonus                 string                `json:"bonus"`
	BonusAmount           float64               `json:"bonusAmount" validate:"min=0"`
	Currency              string                `json:"currency" validate:"omitempty,len=3"`
	MinimumVolume         MinimumVolume         `json:"minimumVolume"`
	TransactionCommission TransactionCommission `json:"transactionCommission"`
}

// SkillsSection holds every skill and language collection of a gig.
type SkillsSection struct {
	Languages    []LanguageEntry `json:"languages"`
	Professional []SkillInput    `json:"professional"`
	Technical    []SkillInput    `json:"technical"`
	Soft         []SkillInput    `json:"soft"`
}

// Collection returns the skill collection for a category.
func (s SkillsSection) Collection(category SkillCategory) []SkillInput {
	switch category {
	case SkillCategoryProfessional:
		return s.Professional
	case SkillCategoryTechnical:
		return s.Technical
	case SkillCategorySoft:
		return s.Soft
	default:
		return nil
	}
}

// SetCollection replaces the skill collection for a category.
func (s *SkillsSection) SetCollection(category SkillCategory, entries []SkillInput) {
	switch category {
	case SkillCategoryProfessional:
		s.Professional = entries
	case SkillCategoryTechnical:
		s.Technical = entries
	case SkillCategorySoft:
		s.Soft = entries
	}
}

// TeamRole is one line of the team structure.
type TeamRole struct {
	RoleID         string `json:"roleId" validate:"required"`
	Count          int    `json:"count" validate:"min=1"`
	SeniorityLevel string `json:"seniorityLevel"`
}

// TeamSection describes the team to staff.
type TeamSection struct {
	Size        int        `json:"size" validate:"min=0"`
	Structure   []TeamRole `json:"structure" validate:"dive"`
	Territories []string   `json:"territories"`
}

// Document is a link to an uploaded or external documentation asset.
type Document struct {
	Name    string `json:"name" validate:"required"`
	URL     string `json:"url" validate:"required"`
	AssetID string `json:"assetId,omitempty"`
}

// DocumentationSection groups documentation links by kind.
type DocumentationSection struct {
	Product  []Document `json:"product" validate:"dive"`
	Process  []Document `json:"process" validate:"dive"`
	Training []Document `json:"training" validate:"dive"`
}

// Append adds a document under the given kind.
func (d *DocumentationSection) Append(kind DocumentKind, doc Document) {
	switch kind {
	case DocumentKindProduct:
		d.Product = append(d.Product, doc)
	case DocumentKindProcess:
		d.Process = append(d.Process, doc)
	case DocumentKindTraining:
		d.Training = append(d.Training, doc)
	}
}

// Gig is a job opening assembled by the wizard.
type Gig struct {
	ID            string               `json:"id"`
	Status        GigStatus            `json:"status"`
	BasicInfo     BasicInfo            `json:"basicInfo"`
	Schedule      ScheduleSection      `json:"schedule"`
	Availability  AvailabilitySection  `json:"availability"`
	Commission    Commission           `json:"commission"`
	Skills        SkillsSection        `json:"skills"`
	Team          TeamSection          `json:"team"`
	Documentation DocumentationSection `json:"documentation"`
	BriefStatus   BriefStatus          `json:"briefStatus"`
	BriefPath     string               `json:"-"`
	PublishedAt   *time.Time           `json:"publishedAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// GigSummary is the list projection of a gig.
type GigSummary struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Category  string    `db:"category" json:"category"`
	Status    GigStatus `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// GigFilter captures supported filters for listing gigs.
type GigFilter struct {
	Status    string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

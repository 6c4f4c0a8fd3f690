package models

// Suggestion sources.
const (
	SuggestionSourceAI        = "ai"
	SuggestionSourceHeuristic = "heuristic"
)

// SuggestedLanguage is a language named in free text.
type SuggestedLanguage struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// GigSuggestion is the structured reading of a free-text job description. Skill and language
// references are names; they are resolved against the catalogs when the suggestion is ingested.
type GigSuggestion struct {
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Category     string                     `json:"category"`
	Seniority    Seniority                  `json:"seniority"`
	Schedules    []DaySchedule              `json:"schedules"`
	TimeZones    []string                   `json:"timeZones"`
	MinimumHours MinimumHours               `json:"minimumHours"`
	Skills       map[SkillCategory][]string `json:"skills"`
	Languages    []SuggestedLanguage        `json:"languages"`
	Commission   Commission                 `json:"commission"`
	TeamSize     int                        `json:"teamSize"`
	Source       string                     `json:"source"`
}

// WizardOptions are the picklists offered by the wizard.
type WizardOptions struct {
	Categories      []string     `json:"categories" yaml:"categories"`
	SeniorityLevels []string     `json:"seniorityLevels" yaml:"seniority_levels"`
	Flexibility     []string     `json:"flexibility" yaml:"flexibility"`
	Destinations    []string     `json:"destinations" yaml:"destinations"`
	TeamRoles       []string     `json:"teamRoles" yaml:"team_roles"`
	Territories     []string     `json:"territories" yaml:"territories"`
	Presets         []HourPreset `json:"presets" yaml:"presets"`
}

// SystemMetrics is a lightweight snapshot of service instrumentation.
type SystemMetrics struct {
	RequestsTotal            uint64  `json:"requestsTotal"`
	AverageRequestDurationMs float64 `json:"averageRequestDurationMs"`
	CacheHits                uint64  `json:"cacheHits"`
	CacheMisses              uint64  `json:"cacheMisses"`
	CacheHitRatio            float64 `json:"cacheHitRatio"`
	NormalizationRuns        uint64  `json:"normalizationRuns"`
	SkillEntriesDropped      uint64  `json:"skillEntriesDropped"`
	GigsPublished            uint64  `json:"gigsPublished"`
	Goroutines               int     `json:"goroutines"`
}

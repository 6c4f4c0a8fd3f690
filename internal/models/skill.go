package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// SkillCategory partitions the skill catalogs.
type SkillCategory string

const (
	SkillCategoryProfessional SkillCategory = "professional"
	SkillCategoryTechnical    SkillCategory = "technical"
	SkillCategorySoft         SkillCategory = "soft"
)

// SkillCategories lists every category in a stable order.
var SkillCategories = []SkillCategory{SkillCategoryProfessional, SkillCategoryTechnical, SkillCategorySoft}

// Valid reports whether c is a known category.
func (c SkillCategory) Valid() bool {
	switch c {
	case SkillCategoryProfessional, SkillCategoryTechnical, SkillCategorySoft:
		return true
	default:
		return false
	}
}

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsObjectID reports whether s has the 24-hex shape of a catalog identifier.
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}

// NewObjectID returns a fresh 24-hex catalog identifier.
func NewObjectID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// ObjectRef is the wrapped identifier form used on the wire: {"$oid": "..."}.
type ObjectRef struct {
	OID string `json:"$oid"`
}

// SkillEntry is the canonical persisted skill reference.
type SkillEntry struct {
	Skill   ObjectRef `json:"skill"`
	Level   int       `json:"level"`
	Details string    `json:"details"`
}

// SkillInputKind tags the three accepted skill reference shapes.
type SkillInputKind int

const (
	// BareName is a JSON string holding a free-text skill name.
	BareName SkillInputKind = iota + 1
	// NamedRef is {"skill": "<name>", ...}.
	NamedRef
	// CanonicalRef is {"skill": {"$oid": "<id>"}, ...}.
	CanonicalRef
)

func (k SkillInputKind) String() string {
	switch k {
	case BareName:
		return "bare_name"
	case NamedRef:
		return "named_ref"
	case CanonicalRef:
		return "canonical_ref"
	default:
		return "unknown"
	}
}

// DefaultSkillLevel applies when a transitional shape carries no level.
const DefaultSkillLevel = 1

// Skill levels range from MinSkillLevel to MaxSkillLevel.
const (
	MinSkillLevel = 1
	MaxSkillLevel = 5
)

// SkillInput is one skill reference in any accepted shape. Name is set for BareName and NamedRef,
// OID for CanonicalRef.
type SkillInput struct {
	Kind    SkillInputKind
	Name    string
	OID     string
	Level   int
	Details string
}

// BareSkillName builds a BareName input.
func BareSkillName(name string) SkillInput {
	return SkillInput{Kind: BareName, Name: name, Level: DefaultSkillLevel}
}

// NamedSkillRef builds a NamedRef input.
func NamedSkillRef(name string, level int, details string) SkillInput {
	return SkillInput{Kind: NamedRef, Name: name, Level: levelOrDefault(level), Details: details}
}

// CanonicalSkillRef builds a CanonicalRef input.
func CanonicalSkillRef(oid string, level int, details string) SkillInput {
	return SkillInput{Kind: CanonicalRef, OID: oid, Level: levelOrDefault(level), Details: details}
}

// Entry returns the canonical entry when the input is already canonical.
func (s SkillInput) Entry() (SkillEntry, bool) {
	if s.Kind != CanonicalRef {
		return SkillEntry{}, false
	}
	return SkillEntry{Skill: ObjectRef{OID: s.OID}, Level: s.Level, Details: s.Details}, true
}

// MarshalJSON writes the input back in the shape it was given.
func (s SkillInput) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case BareName:
		return json.Marshal(s.Name)
	case NamedRef:
		return json.Marshal(struct {
			Skill   string `json:"skill"`
			Level   int    `json:"level"`
			Details string `json:"details,omitempty"`
		}{s.Name, s.Level, s.Details})
	case CanonicalRef:
		return json.Marshal(SkillEntry{Skill: ObjectRef{OID: s.OID}, Level: s.Level, Details: s.Details})
	default:
		return nil, fmt.Errorf("skill input has no kind")
	}
}

// UnmarshalJSON accepts a bare string, {"skill": string} or {"skill": {"$oid": string}}.
// A missing level defaults to DefaultSkillLevel.
func (s *SkillInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = BareSkillName(name)
		return nil
	}

	var raw struct {
		Skill   json.RawMessage `json:"skill"`
		Level   *int            `json:"level"`
		Details string          `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode skill entry: %w", err)
	}
	level := DefaultSkillLevel
	if raw.Level != nil {
		level = *raw.Level
	}

	skill := bytes.TrimSpace(raw.Skill)
	switch {
	case len(skill) == 0 || bytes.Equal(skill, []byte("null")):
		return fmt.Errorf("skill entry has no skill reference")
	case skill[0] == '"':
		var name string
		if err := json.Unmarshal(skill, &name); err != nil {
			return err
		}
		*s = SkillInput{Kind: NamedRef, Name: name, Level: level, Details: raw.Details}
	default:
		var ref struct {
			OID string `json:"$oid"`
			ID  string `json:"_id"`
		}
		if err := json.Unmarshal(skill, &ref); err != nil {
			return fmt.Errorf("decode skill reference: %w", err)
		}
		oid := ref.OID
		if oid == "" {
			oid = ref.ID
		}
		if oid == "" {
			return fmt.Errorf("skill reference has no $oid")
		}
		*s = SkillInput{Kind: CanonicalRef, OID: oid, Level: level, Details: raw.Details}
	}
	return nil
}

func levelOrDefault(level int) int {
	if level <= 0 {
		return DefaultSkillLevel
	}
	return level
}

// Proficiency levels follow the CEFR scale.
const (
	ProficiencyA1 = "A1"
	ProficiencyA2 = "A2"
	ProficiencyB1 = "B1"
	ProficiencyB2 = "B2"
	ProficiencyC1 = "C1"
	ProficiencyC2 = "C2"
)

// LanguageEntry references a catalog language. Language holds a catalog id once normalized and may
// hold a display name before that.
type LanguageEntry struct {
	Language    string `json:"language" validate:"required"`
	Proficiency string `json:"proficiency" validate:"required,oneof=A1 A2 B1 B2 C1 C2"`
	ISO6391     string `json:"iso639_1"`
}

// Resolution states reported to the display layer.
const (
	ResolutionResolved = "resolved"
	ResolutionUnknown  = "unknown"
	ResolutionLoading  = "loading"
	ResolutionPending  = "pending"
)

// Display names for references that cannot be shown by name.
const (
	UnknownSkillName    = "Unknown Skill"
	UnknownLanguageName = "Unknown Language"
	LoadingName         = "Loading..."
)

// SkillView is a skill reference prepared for display.
type SkillView struct {
	OID     string `json:"oid,omitempty"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
	Details string `json:"details"`
	State   string `json:"state"`
}

// LanguageView is a language reference prepared for display.
type LanguageView struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
	ISO6391     string `json:"iso639_1"`
	State       string `json:"state"`
}

// SkillsView groups the display views of every collection on a gig.
type SkillsView struct {
	Languages    []LanguageView `json:"languages"`
	Professional []SkillView    `json:"professional"`
	Technical    []SkillView    `json:"technical"`
	Soft         []SkillView    `json:"soft"`
}

package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

// MigratedDetails fills details for entries converted from a bare name without a catalog description.
const MigratedDetails = "Migrated from string"

// ResolveSkillName looks a free-text skill name up in one category's catalog.
//
// Tiers are tried in order and the first catalog entry satisfying the earliest tier wins: exact
// name, case-insensitive name, then case-insensitive substring in either direction. The substring
// tier depends on catalog order when several entries match; catalog order as received is the
// tie-break.
func ResolveSkillName(name string, category models.SkillCategory, catalog models.SkillCatalog) (models.CatalogSkill, bool) {
	candidates := make([]models.CatalogSkill, 0, len(catalog.Items))
	for _, item := range catalog.Items {
		if item.Name == "" || (item.Category != "" && item.Category != category) {
			continue
		}
		candidates = append(candidates, item)
	}

	for _, item := range candidates {
		if item.Name == name {
			return item, true
		}
	}

	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(name))
	if needle == "" {
		return models.CatalogSkill{}, false
	}
	folded := make([]string, len(candidates))
	for i, item := range candidates {
		folded[i] = folder.String(strings.TrimSpace(item.Name))
	}

	for i, item := range candidates {
		if folded[i] == needle {
			return item, true
		}
	}
	for i, item := range candidates {
		if folded[i] == "" {
			continue
		}
		if strings.Contains(folded[i], needle) || strings.Contains(needle, folded[i]) {
			return item, true
		}
	}
	return models.CatalogSkill{}, false
}

// SkillNormalization is the outcome of normalizing one skill collection.
type SkillNormalization struct {
	Entries []models.SkillInput
	// Changed is true when at least one entry changed shape or was removed.
	Changed bool
	// Dropped lists the names (or ids) removed from the collection.
	Dropped []string
	// Pending counts name-based entries left untouched because the catalog is not loaded.
	Pending int
}

// NormalizeSkills rewrites a collection so every entry references a catalog id.
//
// Canonical entries pass through. Name-based entries are looked up as a catalog id, then resolved
// with ResolveSkillName. A value shaped like an id that the catalog does not know becomes a canonical
// reference shown as unknown; anything else that cannot be matched is dropped. While the catalog is not loaded name-based entries are kept as given
// and nothing is dropped on their account. Entries that resolve to an id already present earlier in
// the collection are removed. Running the function on its own output changes nothing.
func NormalizeSkills(inputs []models.SkillInput, category models.SkillCategory, catalog models.SkillCatalog) SkillNormalization {
	result := SkillNormalization{Entries: make([]models.SkillInput, 0, len(inputs))}
	seen := make(map[string]struct{}, len(inputs))

	keep := func(entry models.SkillInput, changed bool, label string) {
		if _, dup := seen[entry.OID]; dup {
			result.Changed = true
			result.Dropped = append(result.Dropped, label)
			return
		}
		seen[entry.OID] = struct{}{}
		result.Entries = append(result.Entries, entry)
		if changed {
			result.Changed = true
		}
	}

	for _, input := range inputs {
		switch input.Kind {
		case models.CanonicalRef:
			keep(input, false, input.OID)
		case models.BareName, models.NamedRef:
			if !catalog.Loaded {
				result.Entries = append(result.Entries, input)
				result.Pending++
				continue
			}
			match, ok := resolveSkillReference(input.Name, category, catalog)
			if !ok {
				if models.IsObjectID(input.Name) {
					keep(canonicalFromMatch(input, models.CatalogSkill{ID: input.Name}), true, input.Name)
					continue
				}
				result.Changed = true
				result.Dropped = append(result.Dropped, input.Name)
				continue
			}
			keep(canonicalFromMatch(input, match), true, input.Name)
		default:
			result.Changed = true
			result.Dropped = append(result.Dropped, input.Name)
		}
	}

	return result
}

// resolveSkillReference treats a name-based value as a catalog id first, then as a display name.
func resolveSkillReference(value string, category models.SkillCategory, catalog models.SkillCatalog) (models.CatalogSkill, bool) {
	if item, ok := catalog.ByID(value); ok {
		return item, true
	}
	return ResolveSkillName(value, category, catalog)
}

func canonicalFromMatch(input models.SkillInput, match models.CatalogSkill) models.SkillInput {
	details := ""
	if input.Kind == models.NamedRef {
		details = input.Details
	}
	if details == "" {
		details = match.Description
	}
	if details == "" {
		details = MigratedDetails
	}
	level := input.Level
	switch {
	case input.Kind == models.BareName || level < models.MinSkillLevel:
		level = models.DefaultSkillLevel
	case level > models.MaxSkillLevel:
		level = models.MaxSkillLevel
	}
	return models.CanonicalSkillRef(match.ID, level, details)
}

// DescribeSkills resolves a collection for display. Canonical entries whose id is missing from a
// loaded catalog are reported as unknown rather than hidden; while the catalog loads they read as
// loading.
func DescribeSkills(inputs []models.SkillInput, catalog models.SkillCatalog) []models.SkillView {
	views := make([]models.SkillView, 0, len(inputs))
	for _, input := range inputs {
		view := models.SkillView{Level: input.Level, Details: input.Details}
		switch input.Kind {
		case models.CanonicalRef:
			view.OID = input.OID
			switch item, ok := catalog.ByID(input.OID); {
			case ok:
				view.Name = item.Name
				view.State = models.ResolutionResolved
			case catalog.Loaded:
				view.Name = models.UnknownSkillName
				view.State = models.ResolutionUnknown
			default:
				view.Name = models.LoadingName
				view.State = models.ResolutionLoading
			}
		default:
			view.Name = input.Name
			view.State = models.ResolutionPending
		}
		views = append(views, view)
	}
	return views
}

// AddSkill appends a skill to a collection after resolving it. An entry whose id is already in the
// collection is rejected with ErrDuplicateSkill and the collection is returned unchanged.
func AddSkill(collection []models.SkillInput, input models.SkillInput, category models.SkillCategory, catalog models.SkillCatalog) ([]models.SkillInput, error) {
	if input.Level < models.MinSkillLevel || input.Level > models.MaxSkillLevel {
		return collection, appErrors.Clone(appErrors.ErrValidation, "skill level must be between 1 and 5")
	}

	entry := input
	switch input.Kind {
	case models.CanonicalRef:
		if input.OID == "" {
			return collection, appErrors.Clone(appErrors.ErrValidation, "skill id is required")
		}
		if catalog.Loaded {
			if _, ok := catalog.ByID(input.OID); !ok {
				return collection, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("skill %s is not in the %s catalog", input.OID, category))
			}
		}
	case models.BareName, models.NamedRef:
		if !catalog.Loaded {
			return collection, appErrors.Clone(appErrors.ErrUnavailable, "skill catalog is still loading")
		}
		match, ok := resolveSkillReference(input.Name, category, catalog)
		if !ok {
			return collection, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("skill %q not found in the %s catalog", input.Name, category))
		}
		entry = canonicalFromMatch(input, match)
		entry.Level = input.Level
	default:
		return collection, appErrors.Clone(appErrors.ErrValidation, "unsupported skill reference")
	}

	for _, existing := range collection {
		if existing.Kind == models.CanonicalRef && existing.OID == entry.OID {
			return collection, appErrors.Clone(appErrors.ErrDuplicateSkill, fmt.Sprintf("skill %s already selected", entry.OID))
		}
	}

	out := make([]models.SkillInput, 0, len(collection)+1)
	out = append(out, collection...)
	return append(out, entry), nil
}

// ResolveLanguageName matches a language display name exactly; language names come from a fixed
// picklist so no fuzzy tiers apply.
func ResolveLanguageName(name string, catalog models.LanguageCatalog) (models.CatalogLanguage, bool) {
	for _, item := range catalog.Items {
		if item.Name == name {
			return item, true
		}
	}
	return models.CatalogLanguage{}, false
}

// LanguageNormalization is the outcome of normalizing a language collection.
type LanguageNormalization struct {
	Entries []models.LanguageEntry
	Changed bool
	Dropped []string
}

// NormalizeLanguages rewrites language entries so Language holds a catalog id.
//
// A value that is already a catalog id is kept (its ISO code filled when missing). A value equal to
// a catalog name is converted. A well-formed id absent from the catalog is kept as a stale reference.
// Anything else is dropped once the catalog is loaded and kept while it loads. Duplicate languages
// keep their first occurrence.
func NormalizeLanguages(entries []models.LanguageEntry, catalog models.LanguageCatalog) LanguageNormalization {
	result := LanguageNormalization{Entries: make([]models.LanguageEntry, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))

	keep := func(entry models.LanguageEntry, changed bool, label string) {
		if _, dup := seen[entry.Language]; dup {
			result.Changed = true
			result.Dropped = append(result.Dropped, label)
			return
		}
		seen[entry.Language] = struct{}{}
		result.Entries = append(result.Entries, entry)
		if changed {
			result.Changed = true
		}
	}

	for _, entry := range entries {
		if item, ok := catalog.ByID(entry.Language); ok {
			changed := false
			if entry.ISO6391 == "" && item.Code != "" {
				entry.ISO6391 = item.Code
				changed = true
			}
			keep(entry, changed, entry.Language)
			continue
		}
		if !catalog.Loaded {
			keep(entry, false, entry.Language)
			continue
		}
		if item, ok := ResolveLanguageName(entry.Language, catalog); ok {
			label := entry.Language
			entry.Language = item.ID
			entry.ISO6391 = item.Code
			keep(entry, true, label)
			continue
		}
		if models.IsObjectID(entry.Language) {
			keep(entry, false, entry.Language)
			continue
		}
		result.Changed = true
		result.Dropped = append(result.Dropped, entry.Language)
	}

	return result
}

// DescribeLanguages resolves language entries for display.
func DescribeLanguages(entries []models.LanguageEntry, catalog models.LanguageCatalog) []models.LanguageView {
	views := make([]models.LanguageView, 0, len(entries))
	for _, entry := range entries {
		view := models.LanguageView{Proficiency: entry.Proficiency, ISO6391: entry.ISO6391}
		switch item, ok := catalog.ByID(entry.Language); {
		case ok:
			view.ID = item.ID
			view.Name = item.Name
			view.State = models.ResolutionResolved
		case !catalog.Loaded && models.IsObjectID(entry.Language):
			view.ID = entry.Language
			view.Name = models.LoadingName
			view.State = models.ResolutionLoading
		case models.IsObjectID(entry.Language):
			view.ID = entry.Language
			view.Name = models.UnknownLanguageName
			view.State = models.ResolutionUnknown
		default:
			view.Name = entry.Language
			view.State = models.ResolutionPending
		}
		views = append(views, view)
	}
	return views
}

// AddLanguage appends a language after resolving its name. A language already in the collection is
// rejected with ErrDuplicateLanguage.
func AddLanguage(collection []models.LanguageEntry, entry models.LanguageEntry, catalog models.LanguageCatalog) ([]models.LanguageEntry, error) {
	if !catalog.Loaded {
		return collection, appErrors.Clone(appErrors.ErrUnavailable, "language catalog is still loading")
	}
	item, ok := catalog.ByID(entry.Language)
	if !ok {
		item, ok = ResolveLanguageName(entry.Language, catalog)
	}
	if !ok {
		return collection, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("language %q not found", entry.Language))
	}
	for _, existing := range collection {
		if existing.Language == item.ID {
			return collection, appErrors.Clone(appErrors.ErrDuplicateLanguage, fmt.Sprintf("%s already selected", item.Name))
		}
	}
	entry.Language = item.ID
	entry.ISO6391 = item.Code

	out := make([]models.LanguageEntry, 0, len(collection)+1)
	out = append(out, collection...)
	return append(out, entry), nil
}

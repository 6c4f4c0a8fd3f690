package models

import "time"

// CatalogSkill is a reference skill that gig skill entries point at.
type CatalogSkill struct {
	ID          string        `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description"`
	Category    SkillCategory `db:"category" json:"category"`
	Position    int           `db:"position" json:"-"`
	CreatedAt   time.Time     `db:"created_at" json:"-"`
}

// SkillCatalog is one category's skills in source order. Loaded is false while the catalog is still
// being fetched or when the fetch failed; callers must not treat absence as permanent then.
type SkillCatalog struct {
	Category SkillCategory  `json:"category"`
	Loaded   bool           `json:"loaded"`
	Items    []CatalogSkill `json:"items"`
}

// ByID returns the catalog skill with the given id.
func (c SkillCatalog) ByID(id string) (CatalogSkill, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogSkill{}, false
}

// CatalogLanguage is a reference language.
type CatalogLanguage struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Code     string `db:"code" json:"code"`
	Position int    `db:"position" json:"-"`
}

// LanguageCatalog is the language list with its loading state.
type LanguageCatalog struct {
	Loaded bool              `json:"loaded"`
	Items  []CatalogLanguage `json:"items"`
}

// ByID returns the catalog language with the given id.
func (c LanguageCatalog) ByID(id string) (CatalogLanguage, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogLanguage{}, false
}

// Catalogs bundles every catalog the normalizer needs for one gig.
type Catalogs struct {
	Skills    map[SkillCategory]SkillCatalog `json:"skills"`
	Languages LanguageCatalog                `json:"languages"`
}

// Skill returns the catalog for a category; a missing category reads as not loaded.
func (c Catalogs) Skill(category SkillCategory) SkillCatalog {
	if cat, ok := c.Skills[category]; ok {
		return cat
	}
	return SkillCatalog{Category: category}
}

// Loaded reports whether every catalog finished loading.
func (c Catalogs) Loaded() bool {
	for _, category := range SkillCategories {
		if !c.Skill(category).Loaded {
			return false
		}
	}
	return c.Languages.Loaded
}

// Timezone is a lookup entry for the schedule section.
type Timezone struct {
	ID            string `db:"id" json:"id"`
	ZoneName      string `db:"zone_name" json:"zoneName"`
	CountryCode   string `db:"country_code" json:"countryCode"`
	CountryName   string `db:"country_name" json:"countryName"`
	OffsetMinutes int    `db:"offset_minutes" json:"offsetMinutes"`
}

// Currency is a lookup entry for the commission section.
type Currency struct {
	Code   string `db:"code" json:"code"`
	Name   string `db:"name" json:"name"`
	Symbol string `db:"symbol" json:"symbol"`
}

// Company is a lookup entry for the basic info section.
type Company struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Industry string `db:"industry" json:"industry"`
}

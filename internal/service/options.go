package service

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/harx/gig-wizard-api/internal/models"
)

//go:embed data/wizard_options.yaml
var wizardOptionsYAML []byte

// KnownOptions holds the picklists offered by the wizard. The loaded set is never mutated; ForGig
// returns a per-request copy extended with values already present on a gig.
type KnownOptions struct {
	base models.WizardOptions
}

// LoadKnownOptions parses the embedded option set.
func LoadKnownOptions() (*KnownOptions, error) {
	return ParseKnownOptions(wizardOptionsYAML)
}

// ParseKnownOptions parses an option set from YAML and checks the hour presets.
func ParseKnownOptions(data []byte) (*KnownOptions, error) {
	var opts models.WizardOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse wizard options: %w", err)
	}
	seen := make(map[string]struct{}, len(opts.Presets))
	for _, preset := range opts.Presets {
		if preset.Name == "" {
			return nil, fmt.Errorf("hour preset without name")
		}
		if _, dup := seen[preset.Name]; dup {
			return nil, fmt.Errorf("duplicate hour preset %q", preset.Name)
		}
		seen[preset.Name] = struct{}{}
		if !IsHHMM(preset.Hours.Start) || !IsHHMM(preset.Hours.End) {
			return nil, fmt.Errorf("hour preset %q must use HH:MM times", preset.Name)
		}
	}
	return &KnownOptions{base: opts}, nil
}

// All returns a copy of the loaded option set.
func (o *KnownOptions) All() models.WizardOptions {
	if o == nil {
		return models.WizardOptions{}
	}
	return models.WizardOptions{
		Categories:      append([]string{}, o.base.Categories...),
		SeniorityLevels: append([]string{}, o.base.SeniorityLevels...),
		Flexibility:     append([]string{}, o.base.Flexibility...),
		Destinations:    append([]string{}, o.base.Destinations...),
		TeamRoles:       append([]string{}, o.base.TeamRoles...),
		Territories:     append([]string{}, o.base.Territories...),
		Presets:         append([]models.HourPreset{}, o.base.Presets...),
	}
}

// Presets returns the hour presets.
func (o *KnownOptions) Presets() []models.HourPreset {
	if o == nil {
		return nil
	}
	return append([]models.HourPreset{}, o.base.Presets...)
}

// ForGig returns the option set extended with custom values the gig already uses, so the wizard can
// show them as selected.
func (o *KnownOptions) ForGig(gig *models.Gig) models.WizardOptions {
	opts := o.All()
	if gig == nil {
		return opts
	}
	opts.Categories = appendMissing(opts.Categories, gig.BasicInfo.Category)
	opts.SeniorityLevels = appendMissing(opts.SeniorityLevels, gig.BasicInfo.Seniority.Level)
	opts.Destinations = appendMissing(opts.Destinations, gig.BasicInfo.DestinationZone)
	opts.Flexibility = appendMissing(opts.Flexibility, gig.Schedule.Flexibility...)
	opts.Territories = appendMissing(opts.Territories, gig.Team.Territories...)
	for _, role := range gig.Team.Structure {
		opts.TeamRoles = appendMissing(opts.TeamRoles, role.RoleID)
	}
	return opts
}

func appendMissing(list []string, values ...string) []string {
	for _, value := range values {
		if value == "" {
			continue
		}
		found := false
		for _, existing := range list {
			if existing == value {
				found = true
				break
			}
		}
		if !found {
			list = append(list, value)
		}
	}
	return list
}

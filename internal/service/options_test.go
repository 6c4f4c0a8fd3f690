package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/models"
)

func TestLoadKnownOptionsEmbedded(t *testing.T) {
	opts, err := LoadKnownOptions()
	require.NoError(t, err)

	presets := opts.Presets()
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"9-to-5", "early", "late", "evening", "night"}, names)
	assert.Equal(t, models.TimeRange{Start: "23:00", End: "07:00"}, presets[4].Hours)
	assert.NotEmpty(t, opts.All().Categories)
}

func TestParseKnownOptionsRejectsBadPreset(t *testing.T) {
	_, err := ParseKnownOptions([]byte("presets:\n  - name: odd\n    hours: {start: \"9am\", end: \"17:00\"}\n"))
	assert.Error(t, err)

	_, err = ParseKnownOptions([]byte("presets:\n  - name: a\n    hours: {start: \"09:00\", end: \"17:00\"}\n  - name: a\n    hours: {start: \"09:00\", end: \"17:00\"}\n"))
	assert.Error(t, err)
}

func TestKnownOptionsForGigDoesNotLeak(t *testing.T) {
	opts, err := ParseKnownOptions([]byte("categories: [Inbound Sales]\nflexibility: [Flexible Hours]\n"))
	require.NoError(t, err)

	gig := &models.Gig{
		BasicInfo: models.BasicInfo{Category: "Debt Collection"},
		Schedule:  models.ScheduleSection{Flexibility: []string{"Flexible Hours", "Four-day week"}},
		Team:      models.TeamSection{Structure: []models.TeamRole{{RoleID: "Closer", Count: 2}}},
	}

	scoped := opts.ForGig(gig)
	assert.Equal(t, []string{"Inbound Sales", "Debt Collection"}, scoped.Categories)
	assert.Equal(t, []string{"Flexible Hours", "Four-day week"}, scoped.Flexibility)
	assert.Equal(t, []string{"Closer"}, scoped.TeamRoles)

	fresh := opts.ForGig(&models.Gig{})
	assert.Equal(t, []string{"Inbound Sales"}, fresh.Categories)
	assert.Equal(t, []string{"Flexible Hours"}, fresh.Flexibility)
}

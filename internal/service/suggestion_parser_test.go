package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/models"
)

const sampleDescription = `Senior outbound sales agents for a fintech scale-up.
We need 5 agents, Monday to Friday 9am-5pm, Europe/Paris. Native French speakers only. Fluent English is a plus.
Experience with Salesforce and HubSpot, strong Negotiation and Active Listening. 3+ years of experience.
Fixed salary of €1,800 plus bonus. Minimum 35 hours per week.`

func newTestParser(t *testing.T) *HeuristicParser {
	t.Helper()
	parser, err := LoadHeuristicParser()
	require.NoError(t, err)
	return parser
}

func TestHeuristicParserReadsDescription(t *testing.T) {
	got := newTestParser(t).Parse(sampleDescription)

	assert.Equal(t, "Senior outbound sales agents for a fintech scale-up", got.Title)
	assert.Equal(t, "Outbound Sales", got.Category)
	assert.Equal(t, models.Seniority{Level: "Senior", YearsExperience: 3}, got.Seniority)
	assert.Equal(t, models.SuggestionSourceHeuristic, got.Source)

	require.Len(t, got.Schedules, 5)
	assert.Equal(t, models.Monday, got.Schedules[0].Day)
	assert.Equal(t, models.Friday, got.Schedules[4].Day)
	assert.Equal(t, models.TimeRange{Start: "09:00", End: "17:00"}, got.Schedules[0].Hours)
	assert.Equal(t, []string{"Europe/Paris"}, got.TimeZones)
	assert.Equal(t, 35, got.MinimumHours.Weekly)

	assert.Equal(t, []string{"Salesforce", "HubSpot"}, got.Skills[models.SkillCategoryTechnical])
	assert.Equal(t, []string{"Negotiation", "Active Listening"}, got.Skills[models.SkillCategorySoft])
	assert.Empty(t, got.Skills[models.SkillCategoryProfessional])
	assert.Equal(t, []models.SuggestedLanguage{
		{Name: "French", Proficiency: models.ProficiencyC2},
		{Name: "English", Proficiency: models.ProficiencyC1},
	}, got.Languages)

	assert.Equal(t, "EUR", got.Commission.Currency)
	assert.Equal(t, 1800.0, got.Commission.BaseAmount)
	assert.Equal(t, "Performance", got.Commission.Bonus)
	assert.Equal(t, 5, got.TeamSize)
}

func TestHeuristicParserSchedules(t *testing.T) {
	parser := newTestParser(t)

	cases := []struct {
		name string
		text string
		want []models.DaySchedule
	}{
		{
			name: "weekends with hours",
			text: "Weekend shifts 10:00-14:00 for support agents",
			want: []models.DaySchedule{day(models.Saturday, "10:00", "14:00"), day(models.Sunday, "10:00", "14:00")},
		},
		{
			name: "hours without days default to weekdays",
			text: "Work from 8:30 to 16:30 on the phones",
			want: []models.DaySchedule{
				day(models.Monday, "08:30", "16:30"), day(models.Tuesday, "08:30", "16:30"), day(models.Wednesday, "08:30", "16:30"),
				day(models.Thursday, "08:30", "16:30"), day(models.Friday, "08:30", "16:30"),
			},
		},
		{
			name: "days without hours use default hours",
			text: "Available Tuesday and Thursday for callbacks",
			want: []models.DaySchedule{day(models.Tuesday, "09:00", "17:00"), day(models.Thursday, "09:00", "17:00")},
		},
		{
			name: "year ranges are not hours",
			text: "Looking for 3-5 years of telemarketing experience",
			want: []models.DaySchedule{},
		},
		{
			name: "wrapping range",
			text: "Friday to Monday coverage 6pm-11pm",
			want: []models.DaySchedule{
				day(models.Monday, "18:00", "23:00"), day(models.Friday, "18:00", "23:00"),
				day(models.Saturday, "18:00", "23:00"), day(models.Sunday, "18:00", "23:00"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parser.Parse(tc.text).Schedules)
		})
	}
}

func TestHeuristicParserEmptyText(t *testing.T) {
	got := newTestParser(t).Parse("   ")

	assert.Empty(t, got.Title)
	assert.Empty(t, got.Schedules)
	assert.Empty(t, got.Languages)
	assert.Empty(t, got.Commission.Currency)
}

func TestParseHeuristicParserRejectsUnknownWeekday(t *testing.T) {
	_, err := ParseHeuristicParser([]byte("days:\n  Funday: [fun]\n"))
	assert.Error(t, err)
}

func TestSuggestedTitleTruncatesLongLines(t *testing.T) {
	long := "Agents "
	for len(long) < 200 {
		long += "wanted for inbound campaign "
	}
	title := suggestedTitle(long)
	assert.LessOrEqual(t, len([]rune(title)), maxSuggestedTitle)
	assert.NotEmpty(t, title)
}

package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := NewDataset("Day", "Start", "End")
	data.AddRow("Monday", "09:00", "17:00")
	data.AddRow("Tuesday", "10:00")

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Day,Start,End\nMonday,09:00,17:00\nTuesday,10:00,\n", string(out))
}

func TestCSVExporterQuotesValues(t *testing.T) {
	data := NewDataset("Name")
	data.AddRow(`Sales, "inbound"`)

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Name\n\"Sales, \"\"inbound\"\"\"\n", string(out))
}

func TestCSVExporterRejectsEmptyColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{Columns: []string{"a"}, Rows: [][]string{{"1", "2"}}})
	assert.Error(t, err)
}

func TestPDFExporterRenderBrief(t *testing.T) {
	schedule := NewDataset("Days", "Hours")
	schedule.AddRow("Monday, Tuesday", "09:00 - 17:00")

	out, err := NewPDFExporter().RenderBrief(BriefDocument{
		Title:       "Inbound agents for Société Générale",
		Subtitle:    "Inbound Sales",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Sections: []BriefSection{
			{Heading: "Overview", Fields: []BriefField{{Label: "Seniority", Value: "Senior"}, {Label: "Destination", Value: ""}}},
			{Heading: "Schedule", Table: &schedule},
			{Heading: "Team", Table: &Dataset{Columns: []string{"Role", "Count"}}},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFExporterRequiresTitle(t *testing.T) {
	_, err := NewPDFExporter().RenderBrief(BriefDocument{Title: "  "})
	assert.Error(t, err)
}

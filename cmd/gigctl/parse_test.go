package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/models"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseCommandPrintsSuggestion(t *testing.T) {
	output, err := runRoot(t, "", "parse", "Senior outbound sales agent.", "Monday to Friday 9am to 5pm.")
	require.NoError(t, err)

	var suggestion models.GigSuggestion
	require.NoError(t, json.Unmarshal([]byte(output), &suggestion))
	assert.NotEmpty(t, suggestion.Title)
	assert.Len(t, suggestion.Schedules, 5)
	assert.Equal(t, "heuristic", suggestion.Source)
}

func TestParseCommandReadsStdin(t *testing.T) {
	output, err := runRoot(t, "Weekend support agent, Saturday and Sunday 10:00 to 14:00", "parse", "-")
	require.NoError(t, err)

	var suggestion models.GigSuggestion
	require.NoError(t, json.Unmarshal([]byte(output), &suggestion))
	require.Len(t, suggestion.Schedules, 2)
	assert.Equal(t, "10:00", suggestion.Schedules[0].Hours.Start)
}

func TestParseCommandRejectsEmptyInput(t *testing.T) {
	_, err := runRoot(t, "   ", "parse", "-")
	assert.Error(t, err)
}

func TestMigrateRequiresSubcommand(t *testing.T) {
	output, err := runRoot(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, output, "up")
	assert.Contains(t, output, "status")
}

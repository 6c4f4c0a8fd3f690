package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
)

type suggestionServiceMock struct {
	request  dto.SuggestionRequest
	accepted models.GigSuggestion
	err      error
}

func (m *suggestionServiceMock) Suggest(ctx context.Context, req dto.SuggestionRequest) (*models.GigSuggestion, error) {
	m.request = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.GigSuggestion{Title: "Outbound SDR", Source: "heuristic"}, nil
}

func (m *suggestionServiceMock) CreateDraft(ctx context.Context, suggestion models.GigSuggestion) (*models.Gig, error) {
	m.accepted = suggestion
	if m.err != nil {
		return nil, m.err
	}
	return &models.Gig{ID: "gig-9", Status: models.GigStatusDraft}, nil
}

func TestSuggestionHandlerSuggest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &suggestionServiceMock{}

	c, w := newGinContext(http.MethodPost, "/suggestions", []byte(`{"text":"We need an outbound SDR, Monday to Friday 9am to 5pm"}`))
	NewSuggestionHandler(svc).Suggest(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, svc.request.Text, "outbound SDR")
	assert.Contains(t, w.Body.String(), `"source":"heuristic"`)
}

func TestSuggestionHandlerSuggestRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, w := newGinContext(http.MethodPost, "/suggestions", []byte(`text=hello`))
	NewSuggestionHandler(&suggestionServiceMock{}).Suggest(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionHandlerCreateDraft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &suggestionServiceMock{}
	body := []byte(`{"title":"Outbound SDR","skills":{"technical":["Salesforce"]},"teamSize":3}`)

	c, w := newGinContext(http.MethodPost, "/gigs/from-suggestion", body)
	NewSuggestionHandler(svc).CreateDraft(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"Salesforce"}, svc.accepted.Skills[models.SkillCategory("technical")])
	assert.Equal(t, 3, svc.accepted.TeamSize)
}

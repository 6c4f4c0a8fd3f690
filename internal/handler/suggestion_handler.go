package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	"github.com/harx/gig-wizard-api/pkg/response"
)

type suggestionService interface {
	Suggest(ctx context.Context, req dto.SuggestionRequest) (*models.GigSuggestion, error)
	CreateDraft(ctx context.Context, suggestion models.GigSuggestion) (*models.Gig, error)
}

// SuggestionHandler turns free-text job descriptions into gig drafts.
type SuggestionHandler struct {
	suggestions suggestionService
}

// NewSuggestionHandler constructs the handler.
func NewSuggestionHandler(suggestions suggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// Suggest godoc
// @Summary Suggest gig fields from a description
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param payload body dto.SuggestionRequest true "Description"
// @Success 200 {object} response.Envelope
// @Router /suggestions [post]
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req dto.SuggestionRequest
	if !bindJSON(c, &req) {
		return
	}
	suggestion, err := h.suggestions.Suggest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, suggestion)
}

// CreateDraft godoc
// @Summary Create a draft from an accepted suggestion
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param payload body models.GigSuggestion true "Suggestion"
// @Success 201 {object} response.Envelope
// @Router /gigs/from-suggestion [post]
func (h *SuggestionHandler) CreateDraft(c *gin.Context) {
	var suggestion models.GigSuggestion
	if !bindJSON(c, &suggestion) {
		return
	}
	gig, err := h.suggestions.CreateDraft(c.Request.Context(), suggestion)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gig)
}

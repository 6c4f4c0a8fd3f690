package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/middleware"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
	"github.com/harx/gig-wizard-api/pkg/response"
)

const maxSectionBody = 1 << 20

type gigService interface {
	Create(ctx context.Context, req dto.CreateGigRequest) (*models.Gig, error)
	Detail(ctx context.Context, id string) (*dto.GigDetail, error)
	List(ctx context.Context, filter models.GigFilter) ([]models.GigSummary, *models.Pagination, error)
	UpdateSection(ctx context.Context, id, section string, payload json.RawMessage) (*models.Gig, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) (*models.Gig, error)
	NormalizeDrafts(ctx context.Context) (*dto.NormalizeReport, error)
}

// GigHandler manages the gig lifecycle endpoints.
type GigHandler struct {
	gigs gigService
}

// NewGigHandler constructs the handler.
func NewGigHandler(gigs gigService) *GigHandler {
	return &GigHandler{gigs: gigs}
}

// Create godoc
// @Summary Start a gig draft
// @Tags Gigs
// @Accept json
// @Produce json
// @Param payload body dto.CreateGigRequest false "Basic info"
// @Success 201 {object} response.Envelope
// @Router /gigs [post]
func (h *GigHandler) Create(c *gin.Context) {
	var req dto.CreateGigRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	gig, err := h.gigs.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gig)
}

// List godoc
// @Summary List gigs
// @Tags Gigs
// @Produce json
// @Param status query string false "draft or published"
// @Param search query string false "Title or category search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "created_at, updated_at or title"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /gigs [get]
func (h *GigHandler) List(c *gin.Context) {
	filter := models.GigFilter{
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	gigs, pagination, err := h.gigs.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gigs, pagination)
}

// Get godoc
// @Summary Get a gig with its grouped schedule and resolved skills
// @Tags Gigs
// @Produce json
// @Param id path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id} [get]
func (h *GigHandler) Get(c *gin.Context) {
	detail, err := h.gigs.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCatalogsLoaded(c, detail.CatalogsLoaded)
	respondWithMeta(c, http.StatusOK, detail, nil)
}

// UpdateSection godoc
// @Summary Replace one wizard section
// @Tags Gigs
// @Accept json
// @Produce json
// @Param id path string true "Gig ID"
// @Param section path string true "basic-info, schedule, commission, skills, team or documentation"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /gigs/{id}/sections/{section} [put]
func (h *GigHandler) UpdateSection(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSectionBody))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read payload"))
		return
	}
	gig, err := h.gigs.UpdateSection(c.Request.Context(), c.Param("id"), c.Param("section"), json.RawMessage(body))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gig)
}

// Delete godoc
// @Summary Delete a gig
// @Tags Gigs
// @Param id path string true "Gig ID"
// @Success 204
// @Router /gigs/{id} [delete]
func (h *GigHandler) Delete(c *gin.Context) {
	if err := h.gigs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Publish godoc
// @Summary Publish a draft and queue its brief
// @Tags Gigs
// @Produce json
// @Param id path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /gigs/{id}/publish [post]
func (h *GigHandler) Publish(c *gin.Context) {
	gig, err := h.gigs.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gig)
}

// NormalizeDrafts godoc
// @Summary Re-run skill normalization over every draft
// @Tags Gigs
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /gigs/normalize [post]
func (h *GigHandler) NormalizeDrafts(c *gin.Context) {
	report, err := h.gigs.NormalizeDrafts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

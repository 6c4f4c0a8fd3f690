package handler

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/pkg/response"
)

type briefService interface {
	Status(ctx context.Context, gigID string) (*dto.BriefStatusResponse, error)
	Regenerate(ctx context.Context, gigID string) (*dto.BriefStatusResponse, error)
	Open(ctx context.Context, gigID, token string) (*os.File, string, error)
}

// BriefHandler exposes the PDF briefs rendered for published gigs.
type BriefHandler struct {
	briefs briefService
}

// NewBriefHandler constructs the handler.
func NewBriefHandler(briefs briefService) *BriefHandler {
	return &BriefHandler{briefs: briefs}
}

// Status godoc
// @Summary Brief generation state with a signed link when ready
// @Tags Briefs
// @Produce json
// @Param id path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/brief [get]
func (h *BriefHandler) Status(c *gin.Context) {
	status, err := h.briefs.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Regenerate godoc
// @Summary Queue a new brief for a published gig
// @Tags Briefs
// @Produce json
// @Param id path string true "Gig ID"
// @Success 202 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /gigs/{id}/brief [post]
func (h *BriefHandler) Regenerate(c *gin.Context) {
	status, err := h.briefs.Regenerate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, status, nil)
}

// Download godoc
// @Summary Download a brief via signed token
// @Tags Briefs
// @Produce application/pdf
// @Param id path string true "Gig ID"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /briefs/{id}/download [get]
func (h *BriefHandler) Download(c *gin.Context) {
	file, filename, err := h.briefs.Open(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()
	serveFile(c, file, filename, "application/pdf")
}

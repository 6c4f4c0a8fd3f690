package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/pkg/response"
)

type skillService interface {
	View(ctx context.Context, gigID string) (*dto.SkillsResponse, error)
	Add(ctx context.Context, gigID, category string, req dto.AddSkillRequest) (*dto.SkillsResponse, error)
	Update(ctx context.Context, gigID, category, oid string, req dto.UpdateSkillRequest) (*dto.SkillsResponse, error)
	Remove(ctx context.Context, gigID, category, oid string) (*dto.SkillsResponse, error)
	AddLanguage(ctx context.Context, gigID string, req dto.AddLanguageRequest) (*dto.SkillsResponse, error)
	RemoveLanguage(ctx context.Context, gigID, language string) (*dto.SkillsResponse, error)
	Normalize(ctx context.Context, gigID string) (*dto.NormalizeReport, error)
}

// SkillHandler edits the skills section of a gig.
type SkillHandler struct {
	skills skillService
}

// NewSkillHandler constructs the handler.
func NewSkillHandler(skills skillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// View godoc
// @Summary Resolved skills and languages of a gig
// @Tags Skills
// @Produce json
// @Param id path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/skills [get]
func (h *SkillHandler) View(c *gin.Context) {
	result, err := h.skills.View(c.Request.Context(), c.Param("id"))
	h.respond(c, result, err)
}

// Add godoc
// @Summary Add a skill to one category
// @Tags Skills
// @Accept json
// @Produce json
// @Param id path string true "Gig ID"
// @Param category path string true "professional, technical or soft"
// @Param payload body dto.AddSkillRequest true "Skill"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /gigs/{id}/skills/{category} [post]
func (h *SkillHandler) Add(c *gin.Context) {
	var req dto.AddSkillRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.skills.Add(c.Request.Context(), c.Param("id"), c.Param("category"), req)
	h.respond(c, result, err)
}

// Update godoc
// @Summary Change the level or details of a skill
// @Tags Skills
// @Accept json
// @Produce json
// @Param id path string true "Gig ID"
// @Param category path string true "professional, technical or soft"
// @Param skillId path string true "Catalog skill ID"
// @Param payload body dto.UpdateSkillRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/skills/{category}/{skillId} [put]
func (h *SkillHandler) Update(c *gin.Context) {
	var req dto.UpdateSkillRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.skills.Update(c.Request.Context(), c.Param("id"), c.Param("category"), c.Param("skillId"), req)
	h.respond(c, result, err)
}

// Remove godoc
// @Summary Remove a skill
// @Tags Skills
// @Produce json
// @Param id path string true "Gig ID"
// @Param category path string true "professional, technical or soft"
// @Param skillId path string true "Catalog skill ID or pending name"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/skills/{category}/{skillId} [delete]
func (h *SkillHandler) Remove(c *gin.Context) {
	result, err := h.skills.Remove(c.Request.Context(), c.Param("id"), c.Param("category"), c.Param("skillId"))
	h.respond(c, result, err)
}

// AddLanguage godoc
// @Summary Add a language requirement
// @Tags Skills
// @Accept json
// @Produce json
// @Param id path string true "Gig ID"
// @Param payload body dto.AddLanguageRequest true "Language"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/languages [post]
func (h *SkillHandler) AddLanguage(c *gin.Context) {
	var req dto.AddLanguageRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.skills.AddLanguage(c.Request.Context(), c.Param("id"), req)
	h.respond(c, result, err)
}

// RemoveLanguage godoc
// @Summary Remove a language requirement
// @Tags Skills
// @Produce json
// @Param id path string true "Gig ID"
// @Param language path string true "Catalog language ID or name"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/languages/{language} [delete]
func (h *SkillHandler) RemoveLanguage(c *gin.Context) {
	result, err := h.skills.RemoveLanguage(c.Request.Context(), c.Param("id"), c.Param("language"))
	h.respond(c, result, err)
}

// Normalize godoc
// @Summary Resolve name-based skills against the catalogs
// @Tags Skills
// @Produce json
// @Param id path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /gigs/{id}/skills/normalize [post]
func (h *SkillHandler) Normalize(c *gin.Context) {
	report, err := h.skills.Normalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

func (h *SkillHandler) respond(c *gin.Context, result *dto.SkillsResponse, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

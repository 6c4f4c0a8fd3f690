package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/middleware"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
	"github.com/harx/gig-wizard-api/pkg/response"
)

type catalogService interface {
	Skills(ctx context.Context, category models.SkillCategory) ([]models.CatalogSkill, bool, error)
	Languages(ctx context.Context) ([]models.CatalogLanguage, bool, error)
	Timezones(ctx context.Context) ([]models.Timezone, bool, error)
	Currencies(ctx context.Context) ([]models.Currency, bool, error)
	Companies(ctx context.Context) ([]models.Company, bool, error)
	CreateSkill(ctx context.Context, req dto.CreateCatalogSkillRequest) (*models.CatalogSkill, error)
}

type optionsSource interface {
	All() models.WizardOptions
}

// CatalogHandler serves reference catalogs and wizard picklists.
type CatalogHandler struct {
	catalogs catalogService
	options  optionsSource
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(catalogs catalogService, options optionsSource) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs, options: options}
}

// Skills godoc
// @Summary List catalog skills of one category
// @Tags Catalog
// @Produce json
// @Param category query string true "professional, technical or soft"
// @Success 200 {object} response.Envelope
// @Router /catalog/skills [get]
func (h *CatalogHandler) Skills(c *gin.Context) {
	category := models.SkillCategory(strings.ToLower(c.Query("category")))
	if !category.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "category must be professional, technical or soft"))
		return
	}
	items, hit, err := h.catalogs.Skills(c.Request.Context(), category)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	respondWithMeta(c, http.StatusOK, dto.CatalogSkillsResponse{Category: category, Items: items}, nil)
}

// CreateSkill godoc
// @Summary Add a skill to a catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateCatalogSkillRequest true "Skill"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /catalog/skills [post]
func (h *CatalogHandler) CreateSkill(c *gin.Context) {
	var req dto.CreateCatalogSkillRequest
	if !bindJSON(c, &req) {
		return
	}
	skill, err := h.catalogs.CreateSkill(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, skill)
}

// Languages godoc
// @Summary List catalog languages
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/languages [get]
func (h *CatalogHandler) Languages(c *gin.Context) {
	items, hit, err := h.catalogs.Languages(c.Request.Context())
	h.list(c, items, hit, err)
}

// Timezones godoc
// @Summary List time zones
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/timezones [get]
func (h *CatalogHandler) Timezones(c *gin.Context) {
	items, hit, err := h.catalogs.Timezones(c.Request.Context())
	h.list(c, items, hit, err)
}

// Currencies godoc
// @Summary List currencies
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/currencies [get]
func (h *CatalogHandler) Currencies(c *gin.Context) {
	items, hit, err := h.catalogs.Currencies(c.Request.Context())
	h.list(c, items, hit, err)
}

// Companies godoc
// @Summary List companies
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/companies [get]
func (h *CatalogHandler) Companies(c *gin.Context) {
	items, hit, err := h.catalogs.Companies(c.Request.Context())
	h.list(c, items, hit, err)
}

// Options godoc
// @Summary Wizard picklists and hour presets
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/options [get]
func (h *CatalogHandler) Options(c *gin.Context) {
	response.OK(c, h.options.All())
}

func (h *CatalogHandler) list(c *gin.Context, items interface{}, hit bool, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	respondWithMeta(c, http.StatusOK, items, nil)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/middleware"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
	"github.com/harx/gig-wizard-api/pkg/response"
)

// respondWithMeta writes data together with the metadata collected by middleware.
func respondWithMeta(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	response.JSON(c, status, data, pagination, middleware.ResponseMeta(c))
}

// bindJSON decodes the body into dest and writes a validation error when it cannot.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	"github.com/harx/gig-wizard-api/pkg/response"
)

type scheduleService interface {
	Group(flat []models.DaySchedule) []models.GroupedSchedule
	Flatten(groups []models.GroupedSchedule) []models.DaySchedule
	View(ctx context.Context, gigID string) (*models.ScheduleView, error)
	Edit(ctx context.Context, gigID string, req dto.ScheduleEditRequest) (*dto.ScheduleEditResponse, error)
	SetMinimumHours(ctx context.Context, gigID string, hours models.MinimumHours) (*models.MinimumHours, error)
	ExportCSV(ctx context.Context, gigID string) ([]byte, error)
}

// ScheduleHandler exposes the grouped schedule editor.
type ScheduleHandler struct {
	schedules scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(schedules scheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Group godoc
// @Summary Group a flat schedule by identical hours
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GroupSchedulesRequest true "Flat schedule"
// @Success 200 {object} response.Envelope
// @Router /schedules/group [post]
func (h *ScheduleHandler) Group(c *gin.Context) {
	var req dto.GroupSchedulesRequest
	if !bindJSON(c, &req) {
		return
	}
	response.OK(c, h.schedules.Group(req.Schedules))
}

// Flatten godoc
// @Summary Expand schedule groups into one entry per day
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.FlattenSchedulesRequest true "Groups"
// @Success 200 {object} response.Envelope
// @Router /schedules/flatten [post]
func (h *ScheduleHandler) Flatten(c *gin.Context) {
	var req dto.FlattenSchedulesRequest
	if !bindJSON(c, &req) {
		return
	}
	response.OK(c, h.schedules.Flatten(req.Groups))
}

// View godoc
// @Summary Grouped schedule of a gig
// @Tags Schedules
// @Produce json
// @Param id path string true "Gig ID"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/schedule [get]
func (h *ScheduleHandler) View(c *gin.Context) {
	view, err := h.schedules.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// Edit godoc
// @Summary Apply one schedule editor operation
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Gig ID"
// @Param payload body dto.ScheduleEditRequest true "Operation"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /gigs/{id}/schedule/edit [post]
func (h *ScheduleHandler) Edit(c *gin.Context) {
	var req dto.ScheduleEditRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.schedules.Edit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SetMinimumHours godoc
// @Summary Replace the minimum daily, weekly and monthly hours
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Gig ID"
// @Param payload body models.MinimumHours true "Minimum hours"
// @Success 200 {object} response.Envelope
// @Router /gigs/{id}/schedule/minimum-hours [put]
func (h *ScheduleHandler) SetMinimumHours(c *gin.Context) {
	var req models.MinimumHours
	if !bindJSON(c, &req) {
		return
	}
	hours, err := h.schedules.SetMinimumHours(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, hours)
}

// ExportCSV godoc
// @Summary Download the schedule as CSV
// @Tags Schedules
// @Produce text/csv
// @Param id path string true "Gig ID"
// @Success 200 {file} file
// @Router /gigs/{id}/schedule/export [get]
func (h *ScheduleHandler) ExportCSV(c *gin.Context) {
	id := c.Param("id")
	data, err := h.schedules.ExportCSV(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"schedule-%s.csv\"", id))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

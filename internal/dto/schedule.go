package dto

import "github.com/harx/gig-wizard-api/internal/models"

// Schedule edit operations.
const (
	ScheduleAddGroup    = "add_group"
	ScheduleRemoveGroup = "remove_group"
	ScheduleAddDay      = "add_day"
	ScheduleRemoveDay   = "remove_day"
	ScheduleSetHours    = "set_hours"
	ScheduleApplyPreset = "apply_preset"
)

// GroupSchedulesRequest carries a flat schedule to group.
type GroupSchedulesRequest struct {
	Schedules []models.DaySchedule `json:"schedules"`
}

// FlattenSchedulesRequest carries groups to flatten.
type FlattenSchedulesRequest struct {
	Groups []models.GroupedSchedule `json:"groups"`
}

// ScheduleEditRequest applies one editor operation to a gig's schedule.
//
// Groups is the grouped view the client is editing. Empty groups only exist on the client, so a
// client that holds one sends its groups back; when Groups is omitted the stored schedule is grouped.
type ScheduleEditRequest struct {
	Groups     []models.GroupedSchedule `json:"groups" validate:"omitempty,dive"`
	Operation  string                   `json:"operation" validate:"required,oneof=add_group remove_group add_day remove_day set_hours apply_preset"`
	GroupIndex int                      `json:"groupIndex" validate:"min=0"`
	Day        string                   `json:"day"`
	Hours      *models.TimeRange        `json:"hours"`
	Preset     string                   `json:"preset"`
}

// ScheduleEditResponse returns the editor state after an operation. Groups keeps first-seen order
// and may include an empty group; Schedules is what was persisted.
type ScheduleEditResponse struct {
	Groups       []models.GroupedSchedule   `json:"groups"`
	Schedules    []models.DaySchedule       `json:"schedules"`
	Availability models.AvailabilitySection `json:"availability"`
}

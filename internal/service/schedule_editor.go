package service

import (
	"fmt"

	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
)

// DefaultHours seed a new empty group when no preset overrides them.
var DefaultHours = models.TimeRange{Start: "09:00", End: "17:00"}

// ScheduleEditor mutates the grouped view of a schedule. Every write goes through the grouped view
// and is read back with Flatten; nothing edits the flat list directly.
//
// The editor always holds at least one group so the wizard has a slot to edit.
type ScheduleEditor struct {
	groups       []models.GroupedSchedule
	presets      map[string]models.HourPreset
	defaultHours models.TimeRange
}

// NewScheduleEditor builds an editor from groups supplied by a client. Unknown weekdays are dropped
// and a day listed in more than one group stays only in the first.
func NewScheduleEditor(groups []models.GroupedSchedule, presets []models.HourPreset) *ScheduleEditor {
	e := &ScheduleEditor{
		presets:      make(map[string]models.HourPreset, len(presets)),
		defaultHours: DefaultHours,
	}
	for _, p := range presets {
		e.presets[p.Name] = p
	}

	seen := make(map[string]struct{})
	for _, group := range groups {
		days := make([]string, 0, len(group.Days))
		for _, day := range group.Days {
			if !models.IsWeekday(day) {
				continue
			}
			if _, dup := seen[day]; dup {
				continue
			}
			seen[day] = struct{}{}
			days = append(days, day)
		}
		e.groups = append(e.groups, models.GroupedSchedule{Days: days, Hours: group.Hours})
	}
	e.ensureSlot()
	return e
}

// NewScheduleEditorFromFlat groups a persisted flat schedule and opens it for editing.
func NewScheduleEditorFromFlat(flat []models.DaySchedule, presets []models.HourPreset) *ScheduleEditor {
	return NewScheduleEditor(GroupSchedules(flat), presets)
}

// Groups returns a copy of the current grouped view.
func (e *ScheduleEditor) Groups() []models.GroupedSchedule {
	out := make([]models.GroupedSchedule, len(e.groups))
	for i, group := range e.groups {
		days := append([]string{}, group.Days...)
		out[i] = models.GroupedSchedule{Days: days, Hours: group.Hours}
	}
	return out
}

// Flatten derives the persisted per-day list from the grouped view.
func (e *ScheduleEditor) Flatten() []models.DaySchedule {
	return FlattenSchedules(e.groups)
}

// AddGroup appends an empty group using the default hours and returns its index.
func (e *ScheduleEditor) AddGroup() int {
	e.groups = append(e.groups, models.GroupedSchedule{Days: []string{}, Hours: e.defaultHours})
	return len(e.groups) - 1
}

// RemoveGroup deletes a group. Removing the only group leaves one empty group behind.
func (e *ScheduleEditor) RemoveGroup(index int) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	e.groups = append(e.groups[:index], e.groups[index+1:]...)
	e.ensureSlot()
	return nil
}

// AddDay assigns a day to a group. A day already assigned to any group is rejected.
func (e *ScheduleEditor) AddDay(index int, day string) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	if !models.IsWeekday(day) {
		return appErrors.Clone(appErrors.ErrInvalidDay, fmt.Sprintf("unknown weekday %q", day))
	}
	if owner := e.owner(day); owner >= 0 {
		return appErrors.Clone(appErrors.ErrDayAlreadyAssigned, fmt.Sprintf("%s already belongs to group %d", day, owner))
	}
	e.groups[index].Days = append(e.groups[index].Days, day)
	return nil
}

// RemoveDay unassigns a day. A group left empty is deleted unless it is the only group.
func (e *ScheduleEditor) RemoveDay(index int, day string) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	days := e.groups[index].Days
	pos := -1
	for i, d := range days {
		if d == day {
			pos = i
			break
		}
	}
	if pos < 0 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not in group %d", day, index))
	}
	e.groups[index].Days = append(days[:pos:pos], days[pos+1:]...)
	if len(e.groups[index].Days) == 0 && len(e.groups) > 1 {
		e.groups = append(e.groups[:index], e.groups[index+1:]...)
	}
	return nil
}

// SetHours changes the time range of a group.
func (e *ScheduleEditor) SetHours(index int, hours models.TimeRange) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	if !IsHHMM(hours.Start) || !IsHHMM(hours.End) {
		return appErrors.Clone(appErrors.ErrValidation, "hours must be HH:MM")
	}
	e.groups[index].Hours = hours
	return nil
}

// ApplyPreset sets a group's hours from a named preset.
func (e *ScheduleEditor) ApplyPreset(index int, name string) error {
	preset, ok := e.presets[name]
	if !ok {
		return appErrors.Clone(appErrors.ErrUnknownPreset, fmt.Sprintf("unknown hour preset %q", name))
	}
	return e.SetHours(index, preset.Hours)
}

func (e *ScheduleEditor) owner(day string) int {
	for i, group := range e.groups {
		for _, d := range group.Days {
			if d == day {
				return i
			}
		}
	}
	return -1
}

func (e *ScheduleEditor) checkIndex(index int) error {
	if index < 0 || index >= len(e.groups) {
		return appErrors.Clone(appErrors.ErrGroupNotFound, fmt.Sprintf("schedule group %d not found", index))
	}
	return nil
}

func (e *ScheduleEditor) ensureSlot() {
	if len(e.groups) == 0 {
		e.groups = []models.GroupedSchedule{{Days: []string{}, Hours: e.defaultHours}}
	}
}

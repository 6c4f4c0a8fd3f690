package models

import "sort"

// Weekday names accepted in schedules.
const (
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
	Saturday  = "Saturday"
	Sunday    = "Sunday"
)

// Weekdays lists weekday names in canonical display order.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayIndex returns the canonical position of a weekday, or -1 when unknown.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// IsWeekday reports whether day is one of the seven canonical weekday names.
func IsWeekday(day string) bool {
	return WeekdayIndex(day) >= 0
}

// TimeRange holds HH:MM 24-hour start and end strings.
type TimeRange struct {
	Start string `json:"start" yaml:"start" validate:"required,hhmm"`
	End   string `json:"end" yaml:"end" validate:"required,hhmm"`
}

// DaySchedule is one weekday's working hours.
type DaySchedule struct {
	Day   string    `json:"day" validate:"required,weekday"`
	Hours TimeRange `json:"hours" validate:"required"`
}

// GroupedSchedule is a set of days sharing one time range.
type GroupedSchedule struct {
	Days  []string  `json:"days"`
	Hours TimeRange `json:"hours" validate:"required"`
}

// SortedDays returns a copy of the group's days in canonical weekday order.
func (g GroupedSchedule) SortedDays() []string {
	days := append([]string(nil), g.Days...)
	sort.SliceStable(days, func(i, j int) bool {
		return WeekdayIndex(days[i]) < WeekdayIndex(days[j])
	})
	return days
}

// MinimumHours is tracked independently from the day/hour grouping.
type MinimumHours struct {
	Daily   int `json:"daily" validate:"min=0,max=24"`
	Weekly  int `json:"weekly" validate:"min=0,max=168"`
	Monthly int `json:"monthly" validate:"min=0,max=744"`
}

// HourPreset is a named time range offered by the schedule editor.
type HourPreset struct {
	Name  string    `json:"name" yaml:"name"`
	Label string    `json:"label" yaml:"label"`
	Hours TimeRange `json:"hours" yaml:"hours"`
}

// ScheduleView is the grouped representation returned to the wizard.
type ScheduleView struct {
	Groups       []GroupedSchedule `json:"groups"`
	TimeZones    []string          `json:"timeZones"`
	Flexibility  []string          `json:"flexibility"`
	MinimumHours MinimumHours      `json:"minimumHours"`
	Presets      []HourPreset      `json:"presets"`
}

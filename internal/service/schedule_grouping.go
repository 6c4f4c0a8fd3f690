package service

import "github.com/harx/gig-wizard-api/internal/models"

// GroupSchedules collapses per-day schedules into groups of days sharing identical hours.
//
// Entries without a day, or without a start or end time, are discarded. When a day appears more
// than once only its first occurrence is kept. Groups are keyed on the exact (start, end) strings and
// returned in first-seen order, with days in first-seen order inside each group. An empty input
// yields an empty result; callers that need a placeholder group add it themselves.
func GroupSchedules(flat []models.DaySchedule) []models.GroupedSchedule {
	groups := make([]models.GroupedSchedule, 0)
	seenDays := make(map[string]struct{}, len(flat))
	groupIndex := make(map[models.TimeRange]int)

	for _, entry := range flat {
		if entry.Day == "" || entry.Hours.Start == "" || entry.Hours.End == "" {
			continue
		}
		if _, dup := seenDays[entry.Day]; dup {
			continue
		}
		seenDays[entry.Day] = struct{}{}

		idx, ok := groupIndex[entry.Hours]
		if !ok {
			idx = len(groups)
			groupIndex[entry.Hours] = idx
			groups = append(groups, models.GroupedSchedule{Hours: entry.Hours})
		}
		groups[idx].Days = append(groups[idx].Days, entry.Day)
	}

	return groups
}

// FlattenSchedules expands groups back into one DaySchedule per day, in group order then day order.
// A day listed in more than one group keeps its first occurrence.
func FlattenSchedules(groups []models.GroupedSchedule) []models.DaySchedule {
	flat := make([]models.DaySchedule, 0, len(groups)*2)
	seen := make(map[string]struct{})
	for _, group := range groups {
		for _, day := range group.Days {
			if _, dup := seen[day]; dup {
				continue
			}
			seen[day] = struct{}{}
			flat = append(flat, models.DaySchedule{Day: day, Hours: group.Hours})
		}
	}
	return flat
}

// DisplayGroups returns a copy of groups with days in canonical weekday order.
func DisplayGroups(groups []models.GroupedSchedule) []models.GroupedSchedule {
	out := make([]models.GroupedSchedule, len(groups))
	for i, group := range groups {
		days := group.SortedDays()
		if days == nil {
			days = []string{}
		}
		out[i] = models.GroupedSchedule{Days: days, Hours: group.Hours}
	}
	return out
}

// MirrorAvailability re-derives the availability section from the schedule section.
func MirrorAvailability(schedule models.ScheduleSection) models.AvailabilitySection {
	availability := models.AvailabilitySection{
		Schedule:     append([]models.DaySchedule(nil), schedule.Schedules...),
		Flexibility:  append([]string(nil), schedule.Flexibility...),
		MinimumHours: schedule.MinimumHours,
	}
	if len(schedule.TimeZones) > 0 {
		availability.TimeZone = schedule.TimeZones[0]
	}
	return availability
}

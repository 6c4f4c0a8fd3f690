package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harx/gig-wizard-api/internal/dto"
	"github.com/harx/gig-wizard-api/internal/models"
	appErrors "github.com/harx/gig-wizard-api/pkg/errors"
	"github.com/harx/gig-wizard-api/pkg/export"
)

// GigStore is the subset of GigService used by section services.
type GigStore interface {
	Get(ctx context.Context, id string) (*models.Gig, models.Catalogs, error)
	Mutate(ctx context.Context, id string, fn GigMutation) (*models.Gig, models.Catalogs, error)
}

// ScheduleService edits gig schedules through the grouped view.
type ScheduleService struct {
	gigs      GigStore
	options   *KnownOptions
	csv       *export.CSVExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(gigs GigStore, options *KnownOptions, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		gigs:      gigs,
		options:   options,
		csv:       export.NewCSVExporter(),
		validator: ensureValidator(validate),
		logger:    logger,
	}
}

// Group collapses a flat schedule without touching any gig.
func (s *ScheduleService) Group(flat []models.DaySchedule) []models.GroupedSchedule {
	return GroupSchedules(flat)
}

// Flatten expands groups into a flat schedule without touching any gig.
func (s *ScheduleService) Flatten(groups []models.GroupedSchedule) []models.DaySchedule {
	return FlattenSchedules(groups)
}

// View returns the gig's schedule grouped for display, days in weekday order.
func (s *ScheduleService) View(ctx context.Context, gigID string) (*models.ScheduleView, error) {
	gig, _, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return nil, err
	}
	return &models.ScheduleView{
		Groups:       DisplayGroups(GroupSchedules(gig.Schedule.Schedules)),
		TimeZones:    nonNilStrings(gig.Schedule.TimeZones),
		Flexibility:  nonNilStrings(gig.Schedule.Flexibility),
		MinimumHours: gig.Schedule.MinimumHours,
		Presets:      s.options.Presets(),
	}, nil
}

// Edit applies one editor operation and persists the flattened result.
func (s *ScheduleService) Edit(ctx context.Context, gigID string, req dto.ScheduleEditRequest) (*dto.ScheduleEditResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule edit")
	}

	var editor *ScheduleEditor
	gig, _, err := s.gigs.Mutate(ctx, gigID, func(gig *models.Gig, _ models.Catalogs) error {
		if req.Groups != nil {
			editor = NewScheduleEditor(req.Groups, s.options.Presets())
		} else {
			editor = NewScheduleEditorFromFlat(gig.Schedule.Schedules, s.options.Presets())
		}
		if err := applyScheduleOperation(editor, req); err != nil {
			return err
		}
		flat := editor.Flatten()
		if err := s.validateSchedules(flat); err != nil {
			return err
		}
		gig.Schedule.Schedules = flat
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("schedule edited", zap.String("gig_id", gigID), zap.String("operation", req.Operation))
	return &dto.ScheduleEditResponse{
		Groups:       editor.Groups(),
		Schedules:    gig.Schedule.Schedules,
		Availability: gig.Availability,
	}, nil
}

func applyScheduleOperation(editor *ScheduleEditor, req dto.ScheduleEditRequest) error {
	switch req.Operation {
	case dto.ScheduleAddGroup:
		index := editor.AddGroup()
		if req.Hours != nil {
			return editor.SetHours(index, *req.Hours)
		}
		if req.Preset != "" {
			return editor.ApplyPreset(index, req.Preset)
		}
		return nil
	case dto.ScheduleRemoveGroup:
		return editor.RemoveGroup(req.GroupIndex)
	case dto.ScheduleAddDay:
		return editor.AddDay(req.GroupIndex, req.Day)
	case dto.ScheduleRemoveDay:
		return editor.RemoveDay(req.GroupIndex, req.Day)
	case dto.ScheduleSetHours:
		if req.Hours == nil {
			return appErrors.Clone(appErrors.ErrValidation, "hours are required")
		}
		return editor.SetHours(req.GroupIndex, *req.Hours)
	case dto.ScheduleApplyPreset:
		return editor.ApplyPreset(req.GroupIndex, req.Preset)
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown operation %q", req.Operation))
	}
}

// validateSchedules applies the same rules as a schedule section write.
func (s *ScheduleService) validateSchedules(flat []models.DaySchedule) error {
	for _, entry := range flat {
		if err := s.validator.Struct(entry); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid hours for %s", entry.Day))
		}
	}
	return nil
}

// SetMinimumHours replaces the minimum hours triple.
func (s *ScheduleService) SetMinimumHours(ctx context.Context, gigID string, hours models.MinimumHours) (*models.MinimumHours, error) {
	if err := s.validator.Struct(hours); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid minimum hours")
	}
	gig, _, err := s.gigs.Mutate(ctx, gigID, func(gig *models.Gig, _ models.Catalogs) error {
		gig.Schedule.MinimumHours = hours
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &gig.Schedule.MinimumHours, nil
}

// ExportCSV renders the gig's schedule as one CSV row per day in weekday order.
func (s *ScheduleService) ExportCSV(ctx context.Context, gigID string) ([]byte, error) {
	gig, _, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(ScheduleDataset(gig.Schedule))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export schedule")
	}
	return data, nil
}

// ScheduleDataset turns a schedule section into tabular rows, one per day in weekday order.
func ScheduleDataset(schedule models.ScheduleSection) export.Dataset {
	timeZone := ""
	if len(schedule.TimeZones) > 0 {
		timeZone = schedule.TimeZones[0]
	}
	dataset := export.NewDataset("Day", "Start", "End", "Time zone")
	byDay := make(map[string]models.TimeRange, len(schedule.Schedules))
	for _, entry := range FlattenSchedules(GroupSchedules(schedule.Schedules)) {
		byDay[entry.Day] = entry.Hours
	}
	for _, day := range models.Weekdays {
		if hours, ok := byDay[day]; ok {
			dataset.AddRow(day, hours.Start, hours.End, timeZone)
		}
	}
	return dataset
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/harx/gig-wizard-api/internal/models"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsHHMM reports whether s is a zero-padded 24-hour HH:MM time.
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// NewValidator returns a validator with the wizard's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsHHMM(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.IsWeekday(fl.Field().String())
	})
	_ = v.RegisterValidation("skillcategory", func(fl validator.FieldLevel) bool {
		return models.SkillCategory(fl.Field().String()).Valid()
	})
	return v
}

func ensureValidator(v *validator.Validate) *validator.Validate {
	if v == nil {
		return NewValidator()
	}
	return v
}

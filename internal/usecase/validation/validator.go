package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/rules"
)

var ErrInvalidInput = errors.New("invalid input")

// Validator wraps go-playground validator with the time of day and weekday
// rules used by rule set input.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterValidation("time_of_day", validateTimeOfDay)
	v.RegisterValidation("weekday_details", validateWeekdayDetails)

	return &Validator{validate: v}
}

// Validate returns ErrInvalidInput wrapping a readable list of failing fields.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	failures := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		failures = append(failures, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(failures, ", "))
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := domain.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

func validateWeekdayDetails(fl validator.FieldLevel) bool {
	return rules.WeekdayContextHandler{}.Validate(fl.Field().String()) == nil
}

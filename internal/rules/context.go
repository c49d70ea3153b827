package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
)

const (
	DefaultContextName = domain.DefaultContext
	WeekdayContextName = "weekday"

	validActiveDayCharacters = "1YX"
)

// ContextHandler decides whether a rule set context applies on a date.
type ContextHandler interface {
	Name() string
	IsActive(date time.Time, details string) (bool, error)
}

type DefaultContextHandler struct{}

func (DefaultContextHandler) Name() string { return DefaultContextName }

func (DefaultContextHandler) IsActive(time.Time, string) (bool, error) { return true, nil }

var WeekdayPresets = map[string]string{
	"weekend":    "-----11",
	"weekdays":   "11111--",
	"mondays":    "1------",
	"tuesdays":   "-1-----",
	"wednesdays": "--1----",
	"thursdays":  "---1---",
	"fridays":    "----1--",
	"saturdays":  "-----1-",
	"sundays":    "------1",
}

// WeekdayContextHandler is active on the days marked in a seven character
// Monday-first string, or on a named preset.
type WeekdayContextHandler struct{}

func (WeekdayContextHandler) Name() string { return WeekdayContextName }

func (h WeekdayContextHandler) IsActive(date time.Time, details string) (bool, error) {
	days, err := h.resolve(details)
	if err != nil {
		return false, err
	}

	// time.Weekday starts on Sunday
	index := (int(date.Weekday()) + 6) % 7
	return strings.ContainsRune(validActiveDayCharacters, rune(days[index])), nil
}

// Validate checks details without evaluating a date.
func (h WeekdayContextHandler) Validate(details string) error {
	_, err := h.resolve(details)
	return err
}

func (WeekdayContextHandler) resolve(details string) (string, error) {
	if details == "" {
		return "", fmt.Errorf("%w: weekday context without details", domain.ErrInvalidContext)
	}

	details = strings.ToUpper(details)
	if preset, ok := WeekdayPresets[strings.ToLower(details)]; ok {
		return preset, nil
	}

	if len(details) != 7 {
		return "", fmt.Errorf("%w: invalid details %q for context %s", domain.ErrInvalidContext, details, WeekdayContextName)
	}

	return details, nil
}

package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var timeOfDayPattern = regexp.MustCompile(`^([0-9]+)(:([0-9]+))?$`)

// TimeOfDay is a wall-clock time without date, minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q, use HH[:MM]", ErrInvalidTimeOfDay, s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[3] != "" {
		minute, _ = strconv.Atoi(m[3])
	}

	if hour > 23 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q out of range", ErrInvalidTimeOfDay, s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On places the time of day on the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes() < other.minutes()
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// OfTime extracts the time of day of ts, dropping seconds.
func OfTime(ts time.Time) TimeOfDay {
	return TimeOfDay{Hour: ts.Hour(), Minute: ts.Minute()}
}

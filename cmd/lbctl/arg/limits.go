package arg

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/rules"
)

const noLimit = "none"

// limitFlags are the restrictions shared by rule sets and overrides.
// Durations use Go syntax ("1h30m"); "none" removes a limit.
type limitFlags struct {
	minTimeOfDay, maxTimeOfDay                   string
	maxTimePerDay, maxActivityDuration, minBreak string
	freePlay                                     bool
}

func (l *limitFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&l.minTimeOfDay, "min-time", "", `earliest time of day, e.g. "8" or "08:30", "none" to remove`)
	fs.StringVar(&l.maxTimeOfDay, "max-time", "", `latest time of day, "none" to remove`)
	fs.StringVar(&l.maxTimePerDay, "max-per-day", "", `daily allowance, e.g. "2h", "none" to remove`)
	fs.StringVar(&l.maxActivityDuration, "max-activity", "", `longest activity without a break, "none" to remove`)
	fs.StringVar(&l.minBreak, "min-break", "", `minimum break between activities, "none" to remove`)
	fs.BoolVar(&l.freePlay, "free-play", false, "lift every limit")
}

// overlay applies the changed flags on top of the given values.
func (l *limitFlags) overlay(fs *pflag.FlagSet, minTime, maxTime *string, perDay, activity, brk **time.Duration, freePlay *bool) error {
	if fs.Changed("min-time") {
		*minTime = timeOfDayFlag(l.minTimeOfDay)
	}
	if fs.Changed("max-time") {
		*maxTime = timeOfDayFlag(l.maxTimeOfDay)
	}

	for _, d := range []struct {
		name  string
		value string
		dest  **time.Duration
	}{
		{"max-per-day", l.maxTimePerDay, perDay},
		{"max-activity", l.maxActivityDuration, activity},
		{"min-break", l.minBreak, brk},
	} {
		if !fs.Changed(d.name) {
			continue
		}
		parsed, err := optionalDuration(d.value)
		if err != nil {
			return fmt.Errorf("--%s: %w", d.name, err)
		}
		*d.dest = parsed
	}

	if fs.Changed("free-play") {
		*freePlay = l.freePlay
	}
	return nil
}

func timeOfDayFlag(s string) string {
	if s == noLimit {
		return ""
	}
	return s
}

func optionalDuration(s string) (*time.Duration, error) {
	if s == "" || s == noLimit {
		return nil, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, err
	}
	if d < 0 {
		return nil, fmt.Errorf("negative duration %q", s)
	}
	return &d, nil
}

func timeOfDayString(t *domain.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func durationString(d *time.Duration) string {
	if d == nil {
		return "-"
	}
	return rules.FormatDuration(*d)
}

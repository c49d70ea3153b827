package rulefile

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

// File is the TOML rule set file:
//
//	[[user]]
//	username = "kid"
//
//	[[user.ruleset]]
//	priority = 2
//	context = "weekday"
//	context_details = "weekend"
//	max_time_per_day = "3h"
type File struct {
	Users []User `toml:"user" validate:"dive"`
}

type User struct {
	Username  string    `toml:"username" validate:"required"`
	FirstName string    `toml:"first_name"`
	LastName  string    `toml:"last_name"`
	Locale    string    `toml:"locale" validate:"omitempty,max=5"`
	RuleSets  []RuleSet `toml:"ruleset" validate:"dive"`
}

type RuleSet struct {
	Priority       int    `toml:"priority" validate:"gte=1"`
	Context        string `toml:"context"`
	ContextDetails string `toml:"context_details"`
	ContextLabel   string `toml:"label"`

	MinTimeOfDay        string   `toml:"min_time_of_day" validate:"omitempty,time_of_day"`
	MaxTimeOfDay        string   `toml:"max_time_of_day" validate:"omitempty,time_of_day"`
	MaxTimePerDay       Duration `toml:"max_time_per_day"`
	MaxActivityDuration Duration `toml:"max_activity_duration"`
	MinBreak            Duration `toml:"min_break"`
	OptionalTimePerDay  Duration `toml:"optional_time_per_day"`
	FreePlay            bool     `toml:"free_play"`
}

// Duration is a Go duration string ("1h30m"). Unset values stay nil.
type Duration struct {
	Value *time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	d.Value = &parsed
	return nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse rejects unknown keys and checks every entry, including duplicate
// usernames and priorities.
func Parse(data []byte) (*File, error) {
	var file File

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}

	if err := validation.New().Validate(&file); err != nil {
		return nil, fmt.Errorf("rule file: %w", err)
	}

	users := make(map[string]struct{}, len(file.Users))
	for _, user := range file.Users {
		if _, dup := users[user.Username]; dup {
			return nil, fmt.Errorf("rule file: duplicate user %q", user.Username)
		}
		users[user.Username] = struct{}{}

		priorities := make(map[int]struct{}, len(user.RuleSets))
		for _, rs := range user.RuleSets {
			if _, dup := priorities[rs.Priority]; dup {
				return nil, fmt.Errorf("rule file: user %q has priority %d twice", user.Username, rs.Priority)
			}
			priorities[rs.Priority] = struct{}{}
		}
	}

	return &file, nil
}

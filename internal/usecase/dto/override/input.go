package overridedto

import "time"

type UpdateOverrideInput struct {
	Username      string    `validate:"required"`
	ReferenceDate time.Time `validate:"required"`

	MinTimeOfDay        string `validate:"omitempty,time_of_day"`
	MaxTimeOfDay        string `validate:"omitempty,time_of_day"`
	MaxTimePerDay       *time.Duration
	MaxActivityDuration *time.Duration
	MinBreak            *time.Duration
	FreePlay            bool
}

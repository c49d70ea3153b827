package rulesetdto

import "time"

type UpdateRuleSetInput struct {
	RuleSetID      string `validate:"required"`
	Context        string `validate:"omitempty,max=256"`
	ContextDetails string `validate:"max=256"`
	ContextLabel   string `validate:"max=256"`

	MinTimeOfDay        string `validate:"omitempty,time_of_day"`
	MaxTimeOfDay        string `validate:"omitempty,time_of_day"`
	MaxTimePerDay       *time.Duration
	MaxActivityDuration *time.Duration
	MinBreak            *time.Duration
	OptionalTimePerDay  *time.Duration
	FreePlay            bool
}

package domain

import (
	"context"
	"fmt"
	"time"
)

// RuleOverride replaces selected rule set fields for one user on one date.
// Nil fields inherit from the active rule set; FreePlay only ever grants.
type RuleOverride struct {
	ID            string
	Username      string
	ReferenceDate time.Time

	MaxTimePerDay       *time.Duration
	MinTimeOfDay        *TimeOfDay
	MaxTimeOfDay        *TimeOfDay
	MinBreak            *time.Duration
	MaxActivityDuration *time.Duration
	FreePlay            bool
}

func OverrideKey(username string, date time.Time) string {
	return fmt.Sprintf("%s|%s", username, date.Format(time.DateOnly))
}

func (o *RuleOverride) Key() string {
	return OverrideKey(o.Username, o.ReferenceDate)
}

// DateOf truncates ts to midnight in its own location.
func DateOf(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}

type RuleOverrideRepository interface {
	UpsertRuleOverride(ctx context.Context, override *RuleOverride) error
	GetRuleOverride(ctx context.Context, username string, date time.Time) (*RuleOverride, error)
	ListRuleOverridesAfter(ctx context.Context, date time.Time) ([]*RuleOverride, error)
	DeleteRuleOverridesBefore(ctx context.Context, date time.Time) (int64, error)
}

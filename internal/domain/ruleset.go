package domain

import (
	"context"
	"sort"
	"time"
)

const (
	DefaultRuleSetPriority = 1
	DefaultContext         = "default"
)

type RuleSet struct {
	ID     string
	UserID string

	Context        string
	ContextDetails string
	ContextLabel   string
	Priority       int

	MinTimeOfDay        *TimeOfDay
	MaxTimeOfDay        *TimeOfDay
	MaxTimePerDay       *time.Duration
	MaxActivityDuration *time.Duration
	MinBreak            *time.Duration
	FreePlay            bool
	OptionalTimePerDay  *time.Duration
}

// NewDefaultRuleSet returns an unrestricted rule set in the default context.
func NewDefaultRuleSet(userID string, priority int) *RuleSet {
	return &RuleSet{
		UserID:   userID,
		Context:  DefaultContext,
		Priority: priority,
	}
}

func (rs *RuleSet) Label() string {
	if rs.ContextLabel != "" {
		return rs.ContextLabel
	}
	return rs.Context
}

// CanMoveUp reports whether the rule set may swap with the next higher priority.
func (rs *RuleSet) CanMoveUp(maxPriority int) bool {
	return 1 < rs.Priority && rs.Priority < maxPriority
}

// CanMoveDown reports whether the rule set may swap with the next lower
// priority. Priority 1 can never be a swap partner.
func (rs *RuleSet) CanMoveDown() bool {
	return rs.Priority > 2
}

func (rs *RuleSet) FixedContext() bool {
	return rs.Priority == DefaultRuleSetPriority
}

// Clone returns a deep copy; pointer fields do not alias the receiver.
func (rs *RuleSet) Clone() *RuleSet {
	c := *rs
	c.MinTimeOfDay = clonePtr(rs.MinTimeOfDay)
	c.MaxTimeOfDay = clonePtr(rs.MaxTimeOfDay)
	c.MaxTimePerDay = clonePtr(rs.MaxTimePerDay)
	c.MaxActivityDuration = clonePtr(rs.MaxActivityDuration)
	c.MinBreak = clonePtr(rs.MinBreak)
	c.OptionalTimePerDay = clonePtr(rs.OptionalTimePerDay)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SortRuleSets orders rule sets by ascending priority in place.
func SortRuleSets(ruleSets []*RuleSet) {
	sort.SliceStable(ruleSets, func(i, j int) bool {
		return ruleSets[i].Priority < ruleSets[j].Priority
	})
}

type RuleSetRepository interface {
	CreateRuleSet(ctx context.Context, ruleSet *RuleSet) error
	GetRuleSetByID(ctx context.Context, ruleSetID string) (*RuleSet, error)
	GetUserRuleSets(ctx context.Context, userID string) ([]*RuleSet, error)
	UpdateRuleSet(ctx context.Context, ruleSet *RuleSet) error
	DeleteRuleSet(ctx context.Context, ruleSetID string) error
	SwapPriorities(ctx context.Context, first, second *RuleSet) error
}

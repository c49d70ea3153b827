package rules

import "github.com/LavaJover/little-brother/internal/domain"

// OverriddenFields marks which rule set fields came from an override. Only
// used for display emphasis.
type OverriddenFields uint8

const (
	OverriddenMaxTimePerDay OverriddenFields = 1 << iota
	OverriddenMinTimeOfDay
	OverriddenMaxTimeOfDay
	OverriddenMinBreak
	OverriddenFreePlay
	OverriddenMaxActivityDuration
)

func (f OverriddenFields) Has(field OverriddenFields) bool { return f&field != 0 }

// ApplyOverride returns ruleSet unchanged when override is nil. Otherwise it
// returns a copy in which every non-nil override field replaces the rule set
// value. FreePlay can only be switched on by an override.
func ApplyOverride(ruleSet *domain.RuleSet, override *domain.RuleOverride) (*domain.RuleSet, OverriddenFields) {
	if ruleSet == nil || override == nil {
		return ruleSet, 0
	}

	effective := ruleSet.Clone()
	var fields OverriddenFields

	if override.MaxTimePerDay != nil {
		v := *override.MaxTimePerDay
		effective.MaxTimePerDay = &v
		fields |= OverriddenMaxTimePerDay
	}

	if override.MinTimeOfDay != nil {
		v := *override.MinTimeOfDay
		effective.MinTimeOfDay = &v
		fields |= OverriddenMinTimeOfDay
	}

	if override.MaxTimeOfDay != nil {
		v := *override.MaxTimeOfDay
		effective.MaxTimeOfDay = &v
		fields |= OverriddenMaxTimeOfDay
	}

	if override.MinBreak != nil {
		v := *override.MinBreak
		effective.MinBreak = &v
		fields |= OverriddenMinBreak
	}

	if override.FreePlay {
		effective.FreePlay = true
		fields |= OverriddenFreePlay
	}

	if override.MaxActivityDuration != nil {
		v := *override.MaxActivityDuration
		effective.MaxActivityDuration = &v
		fields |= OverriddenMaxActivityDuration
	}

	return effective, fields
}

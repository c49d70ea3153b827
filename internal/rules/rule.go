package rules

import "strings"

// Rules is a bitmask over every rule category. The numeric values are shared
// with clients and must not change.
type Rules uint16

const (
	RuleTooEarly Rules = 1 << iota
	RuleTooLate
	RuleTimePerDay
	RuleDayBlocked
	RuleActivityDuration
	RuleMinBreak
	RuleFreePlay
	RuleTimeExtension
	InfoRemainingPlaytime
	InfoRemainingPlaytimeThisSession
)

const RuleTimeOfDay = RuleTooEarly | RuleTooLate

// GrantRules, DenyRules and InfoRules are the three disjoint projections of
// Rules. A RuleResultInfo keeps one of each so that a deny bit cannot end up
// in the grant set by accident.
type (
	GrantRules Rules
	DenyRules  Rules
	InfoRules  Rules
)

const (
	GrantFreePlay      = GrantRules(RuleFreePlay)
	GrantTimeExtension = GrantRules(RuleTimeExtension)

	GrantMask = GrantFreePlay | GrantTimeExtension
)

const (
	DenyTooEarly         = DenyRules(RuleTooEarly)
	DenyTooLate          = DenyRules(RuleTooLate)
	DenyTimeOfDay        = DenyRules(RuleTimeOfDay)
	DenyTimePerDay       = DenyRules(RuleTimePerDay)
	DenyDayBlocked       = DenyRules(RuleDayBlocked)
	DenyActivityDuration = DenyRules(RuleActivityDuration)
	DenyMinBreak         = DenyRules(RuleMinBreak)

	DenyMask = DenyTimeOfDay | DenyTimePerDay | DenyDayBlocked | DenyActivityDuration | DenyMinBreak
)

const (
	InfoRemaining            = InfoRules(InfoRemainingPlaytime)
	InfoRemainingThisSession = InfoRules(InfoRemainingPlaytimeThisSession)

	InfoMask = InfoRemaining | InfoRemainingThisSession
)

func (r Rules) Has(other Rules) bool { return r&other != 0 }

func (r Rules) Grants() GrantRules { return GrantRules(r) & GrantMask }
func (r Rules) Denies() DenyRules  { return DenyRules(r) & DenyMask }
func (r Rules) Infos() InfoRules   { return InfoRules(r) & InfoMask }

func (g GrantRules) Rules() Rules { return Rules(g & GrantMask) }
func (d DenyRules) Rules() Rules  { return Rules(d & DenyMask) }
func (i InfoRules) Rules() Rules  { return Rules(i & InfoMask) }

var ruleNames = []struct {
	rule Rules
	name string
}{
	{RuleTooEarly, "too_early"},
	{RuleTooLate, "too_late"},
	{RuleTimePerDay, "time_per_day"},
	{RuleDayBlocked, "day_blocked"},
	{RuleActivityDuration, "activity_duration"},
	{RuleMinBreak, "min_break"},
	{RuleFreePlay, "free_play"},
	{RuleTimeExtension, "time_extension"},
	{InfoRemainingPlaytime, "remaining_playtime"},
	{InfoRemainingPlaytimeThisSession, "remaining_playtime_this_session"},
}

// Names lists the names of the set bits, lowest bit first.
func (r Rules) Names() []string {
	var names []string
	for _, rn := range ruleNames {
		if r.Has(rn.rule) {
			names = append(names, rn.name)
		}
	}
	return names
}

func (r Rules) String() string {
	if r == 0 {
		return "none"
	}
	return strings.Join(r.Names(), "|")
}

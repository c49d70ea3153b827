package rules

import (
	"strconv"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
)

// Reason is a display template explaining one applying rule.
type Reason struct {
	Rule     Rules
	Template string
	Args     map[string]string
}

// RuleResultInfo is the decision for one user at one instant. It is built
// once per evaluation and never persisted.
type RuleResultInfo struct {
	DefaultRuleSet   *domain.RuleSet
	EffectiveRuleSet *domain.RuleSet
	Overridden       OverriddenFields

	User   string
	Locale string

	// FreePlay lifts every session limit.
	FreePlay bool

	granted GrantRules
	denied  DenyRules
	info    InfoRules

	// ApproachingLogoutRules is the look-ahead warning, independent of the
	// current decision.
	ApproachingLogoutRules Rules

	BreakMinutesLeft     int
	MinutesLeftToday     *int
	minutesLeftInSession *int
	SessionEndDatetime   *time.Time

	TimeExtensionActive        bool
	MinutesLeftInTimeExtension *int
	TimeExtensionStart         *time.Time
	TimeExtensionEnd           *time.Time

	Reasons []Reason
}

func NewRuleResultInfo(defaultRuleSet *domain.RuleSet, override *domain.RuleOverride, user, locale string) *RuleResultInfo {
	info := &RuleResultInfo{
		DefaultRuleSet:   defaultRuleSet,
		EffectiveRuleSet: defaultRuleSet,
		User:             user,
		Locale:           locale,
	}

	if defaultRuleSet != nil && override != nil {
		info.EffectiveRuleSet, info.Overridden = ApplyOverride(defaultRuleSet, override)
	}

	if info.EffectiveRuleSet != nil {
		info.FreePlay = info.EffectiveRuleSet.FreePlay
	}

	return info
}

func (r *RuleResultInfo) Grant(g GrantRules) { r.granted |= g & GrantMask }
func (r *RuleResultInfo) Deny(d DenyRules)   { r.denied |= d & DenyMask }
func (r *RuleResultInfo) Inform(i InfoRules) { r.info |= i & InfoMask }

func (r *RuleResultInfo) Granted() GrantRules { return r.granted }
func (r *RuleResultInfo) Denied() DenyRules   { return r.denied }
func (r *RuleResultInfo) Informed() InfoRules { return r.info }

// ApplyingRules is the combined mask as sent to clients.
func (r *RuleResultInfo) ApplyingRules() Rules {
	return r.granted.Rules() | r.denied.Rules() | r.info.Rules()
}

func (r *RuleResultInfo) SetApproachingLogoutRule(rule Rules) {
	r.ApproachingLogoutRules |= rule
}

// SetMinutesLeftInSession keeps the most restrictive proposal, floored at 0.
func (r *RuleResultInfo) SetMinutesLeftInSession(minutesLeft int) *int {
	minutesLeft = max(minutesLeft, 0)

	if r.minutesLeftInSession == nil || minutesLeft < *r.minutesLeftInSession {
		r.minutesLeftInSession = &minutesLeft
	}

	return r.MinutesLeftInSession()
}

func (r *RuleResultInfo) SetMinutesLeftToday(minutesLeft int) {
	minutesLeft = max(minutesLeft, 0)

	if r.MinutesLeftToday == nil || minutesLeft < *r.MinutesLeftToday {
		r.MinutesLeftToday = &minutesLeft
	}
}

func (r *RuleResultInfo) SetSessionEndDatetime(end time.Time) {
	if r.SessionEndDatetime == nil || end.Before(*r.SessionEndDatetime) {
		r.SessionEndDatetime = &end
	}
}

// MinutesLeftInSession returns nil for "no limit". With both a session limit
// and an active extension the tighter one governs.
func (r *RuleResultInfo) MinutesLeftInSession() *int {
	if r.FreePlay {
		return nil
	}

	switch {
	case r.minutesLeftInSession == nil:
		return r.MinutesLeftInTimeExtension
	case r.MinutesLeftInTimeExtension == nil:
		return r.minutesLeftInSession
	}

	m := min(*r.minutesLeftInSession, *r.MinutesLeftInTimeExtension)
	return &m
}

func (r *RuleResultInfo) ActivityGranted() bool {
	return r.granted != 0
}

func (r *RuleResultInfo) SkipNegativeChecks() bool {
	return r.granted&GrantFreePlay != 0
}

// ActivityAllowed: any grant wins over every deny.
func (r *RuleResultInfo) ActivityAllowed() bool {
	return r.granted != 0 || r.denied == 0
}

func (r *RuleResultInfo) LimitedSessionTime() bool {
	return r.MinutesLeftInSession() != nil
}

// AddTimeExtensionMetaData records ext as the active extension at ref, or
// clears the extension state when ext is nil.
func (r *RuleResultInfo) AddTimeExtensionMetaData(ref time.Time, ext *domain.TimeExtension) {
	if ext == nil {
		r.TimeExtensionActive = false
		r.MinutesLeftInTimeExtension = nil
		return
	}

	r.Grant(GrantTimeExtension)
	r.TimeExtensionActive = true

	start, end := ext.StartDatetime, ext.EndDatetime
	r.TimeExtensionStart = &start
	r.TimeExtensionEnd = &end

	r.Reasons = append(r.Reasons, Reason{
		Rule:     RuleTimeExtension,
		Template: "Active time extension ({duration}) until {hh_mm}",
		Args: map[string]string{
			"duration": FormatDuration(ext.Length()),
			"hh_mm":    end.Format("15:04"),
		},
	})

	minutes := max(roundedMinutes(end.Sub(ref)), 0)
	r.MinutesLeftInTimeExtension = &minutes
}

// CheckApproachingLogout flags rule when a session limit exists and at most
// warnMinutes remain.
func (r *RuleResultInfo) CheckApproachingLogout(warnMinutes int, rule Rules) {
	left := r.MinutesLeftInSession()
	if left != nil && *left <= warnMinutes {
		r.SetApproachingLogoutRule(rule)
	}
}

// DatetimeIsPermittedByExtension tests start <= ts < end of the active
// extension.
func (r *RuleResultInfo) DatetimeIsPermittedByExtension(ts time.Time) bool {
	if !r.TimeExtensionActive || r.TimeExtensionStart == nil || r.TimeExtensionEnd == nil {
		return false
	}
	return !ts.Before(*r.TimeExtensionStart) && ts.Before(*r.TimeExtensionEnd)
}

// Args are the variables available to notification templates.
func (r *RuleResultInfo) Args() map[string]string {
	args := map[string]string{
		"user":                    r.User,
		"break_minutes_left":      strconv.Itoa(r.BreakMinutesLeft),
		"minutes_left_in_session": "",
		"minutes_left_today":      "",
		"session_end_datetime":    "",
	}

	if m := r.MinutesLeftInSession(); m != nil {
		args["minutes_left_in_session"] = strconv.Itoa(*m)
	}
	if r.MinutesLeftToday != nil {
		args["minutes_left_today"] = strconv.Itoa(*r.MinutesLeftToday)
	}
	if r.SessionEndDatetime != nil {
		args["session_end_datetime"] = r.SessionEndDatetime.Format("15:04")
	}

	return args
}

func (r *RuleResultInfo) addReason(rule Rules, template string, args map[string]string) {
	r.Reasons = append(r.Reasons, Reason{Rule: rule, Template: template, Args: args})
}

// roundedMinutes converts d to whole minutes with a 30 second bias, so 59s
// counts as one minute and 29s as none.
func roundedMinutes(d time.Duration) int {
	return int((d + 30*time.Second) / time.Minute)
}

// FormatDuration renders d as "1h30m" or "45m", without seconds.
func FormatDuration(d time.Duration) string {
	d = d.Truncate(time.Minute)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)

	if hours > 0 {
		return strconv.Itoa(hours) + "h" + strconv.Itoa(minutes) + "m"
	}
	return strconv.Itoa(minutes) + "m"
}

package rules

import (
	"log/slog"
	"strings"
)

const (
	textNoTimeLeft                = "{user}, you do not have computer time left today.\nYou will be logged out."
	textNoTimeLeftApproaching     = "{user}, you only have {minutes_left_in_session} minutes left today.\nPlease, log out."
	textNoTimeLeftInTimeExtension = "{user}, you only have {minutes_left_in_session} minutes left in your time extension.\nPlease, log out."
	textNoTimeToday               = "{user}, you do not have any computer time today.\nYou will be logged out."
	textTooEarly                  = "{user}, it is too early to use the computer.\nYou will be logged out."
	textTooLate                   = "{user}, it is too late to use the computer.\nYou will be logged out."
	textTooLateApproaching        = "{user}, in {minutes_left_in_session} minutes it will be too late to use the computer.\nPlease, log out."
	textNeedBreak                 = "{user}, you have to take a break.\nYou will be logged out."
	textNeedBreakApproaching      = "{user}, in {minutes_left_in_session} minutes you will have to take a break.\nPlease, log out."
	textMinBreak                  = "{user}, your break will only be over in {break_minutes_left} minutes.\nYou will be logged out."
	textLimitedSessionStart       = "Hello {user}, you will be allowed to play for {minutes_left_in_session} minutes\nin this session."
	textUnlimitedSessionStart     = "Hello {user}, you have unlimited playtime in this session."
)

// Texts picks the user-facing message for a decision. Lookups never fail:
// a mask without a matching message yields "" and a warning.
type Texts struct {
	logger *slog.Logger
}

func NewTexts(logger *slog.Logger) *Texts {
	return &Texts{logger: logger.With("component", "texts")}
}

func (t *Texts) ForRuleSet(info *RuleResultInfo) string {
	denied := info.Denied().Rules()

	switch {
	case denied.Has(RuleTimePerDay):
		return format(textNoTimeLeft, info.Args())
	case denied.Has(RuleDayBlocked):
		return format(textNoTimeToday, info.Args())
	case denied.Has(RuleTooEarly):
		return format(textTooEarly, info.Args())
	case denied.Has(RuleTooLate):
		return format(textTooLate, info.Args())
	case denied.Has(RuleActivityDuration):
		return format(textNeedBreak, info.Args())
	case denied.Has(RuleMinBreak):
		return format(textMinBreak, info.Args())
	}

	t.logger.Warn("cannot derive text for rule result", "applying_rules", uint16(info.ApplyingRules()))
	return ""
}

func (t *Texts) ForApproachingLogout(info *RuleResultInfo) string {
	approaching := info.ApproachingLogoutRules

	switch {
	case approaching.Has(RuleActivityDuration):
		return format(textNeedBreakApproaching, info.Args())
	case approaching.Has(RuleTooLate):
		return format(textTooLateApproaching, info.Args())
	case approaching.Has(RuleTimePerDay):
		return format(textNoTimeLeftApproaching, info.Args())
	case approaching.Has(RuleTimeExtension):
		return format(textNoTimeLeftInTimeExtension, info.Args())
	}

	t.logger.Warn("cannot derive text for approaching logout", "approaching_logout_rules", uint16(approaching))
	return ""
}

func (t *Texts) SessionStart(info *RuleResultInfo) string {
	if info.LimitedSessionTime() {
		return format(textLimitedSessionStart, info.Args())
	}
	return format(textUnlimitedSessionStart, info.Args())
}

// FormatReason renders a reason template with its arguments.
func FormatReason(r Reason) string {
	return format(r.Template, r.Args)
}

func format(template string, args map[string]string) string {
	pairs := make([]string, 0, 2*len(args))
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

package statusdto

import "time"

// UserStatus is the evaluated rule decision for one user as reported to
// clients and the CLI.
type UserStatus struct {
	Username               string     `json:"username"`
	FullName               string     `json:"full_name"`
	Locale                 string     `json:"locale,omitempty"`
	ContextLabel           string     `json:"context_label,omitempty"`
	ActivityAllowed        bool       `json:"activity_allowed"`
	ApplyingRules          uint16     `json:"applying_rules"`
	ApproachingLogoutRules uint16     `json:"approaching_logout_rules"`
	MinutesLeftInSession   *int       `json:"minutes_left_in_session,omitempty"`
	MinutesLeftToday       *int       `json:"minutes_left_today,omitempty"`
	SessionEnd             *time.Time `json:"session_end,omitempty"`
	TodaysActivityMinutes  int        `json:"todays_activity_minutes"`
	TimeExtensionActive    bool       `json:"time_extension_active"`
	TimeExtensionEnd       *time.Time `json:"time_extension_end,omitempty"`
	TimeExtensionPeriods   []int      `json:"time_extension_periods,omitempty"`
	ActiveHosts            []string   `json:"active_hosts,omitempty"`
	Reasons                []string   `json:"reasons,omitempty"`
	Text                   string     `json:"text,omitempty"`
	WarningText            string     `json:"warning_text,omitempty"`
}

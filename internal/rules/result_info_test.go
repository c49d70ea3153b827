package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/little-brother/internal/domain"
)

var refTime = time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

func TestActivityAllowed(t *testing.T) {
	tests := []struct {
		name    string
		grant   GrantRules
		deny    DenyRules
		allowed bool
	}{
		{name: "nothing applies", allowed: true},
		{name: "deny only", deny: DenyTimePerDay, allowed: false},
		{name: "every deny", deny: DenyMask, allowed: false},
		{name: "free play beats every deny", grant: GrantFreePlay, deny: DenyMask, allowed: true},
		{name: "extension beats too late", grant: GrantTimeExtension, deny: DenyTooLate, allowed: true},
		{name: "grant only", grant: GrantMask, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewRuleResultInfo(nil, nil, "kid", "en")
			info.Grant(tt.grant)
			info.Deny(tt.deny)
			info.Inform(InfoMask)

			assert.Equal(t, tt.allowed, info.ActivityAllowed())
		})
	}
}

func TestFreePlayRuleSetAlwaysAllowed(t *testing.T) {
	info := NewRuleResultInfo(&domain.RuleSet{FreePlay: true}, nil, "kid", "en")
	info.Grant(GrantFreePlay)
	info.Deny(DenyMask)

	assert.True(t, info.ActivityAllowed())
	assert.True(t, info.SkipNegativeChecks())
	assert.Nil(t, info.MinutesLeftInSession())
}

func TestGrantIgnoresForeignBits(t *testing.T) {
	info := NewRuleResultInfo(nil, nil, "kid", "en")
	info.Grant(GrantRules(RuleTooLate))
	info.Deny(DenyRules(RuleFreePlay))

	assert.Zero(t, info.Granted())
	assert.Zero(t, info.Denied())
	assert.True(t, info.ActivityAllowed())
}

func TestApplyingRulesCombinesSets(t *testing.T) {
	info := NewRuleResultInfo(nil, nil, "kid", "en")
	info.Grant(GrantTimeExtension)
	info.Deny(DenyTooLate)
	info.Inform(InfoRemainingThisSession)

	assert.Equal(t, RuleTimeExtension|RuleTooLate|InfoRemainingPlaytimeThisSession, info.ApplyingRules())
}

func TestSetMinutesLeftInSession_KeepsMinimum(t *testing.T) {
	tests := []struct {
		name   string
		inputs []int
		want   int
	}{
		{name: "single", inputs: []int{12}, want: 12},
		{name: "decreasing then increasing", inputs: []int{10, 3, 7}, want: 3},
		{name: "negative clamps to zero", inputs: []int{10, -5, 4}, want: 0},
		{name: "all equal", inputs: []int{5, 5, 5}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewRuleResultInfo(nil, nil, "kid", "en")
			for _, m := range tt.inputs {
				info.SetMinutesLeftInSession(m)
			}

			require.NotNil(t, info.MinutesLeftInSession())
			assert.Equal(t, tt.want, *info.MinutesLeftInSession())
		})
	}
}

func TestSetMinutesLeftToday_KeepsMinimum(t *testing.T) {
	info := NewRuleResultInfo(nil, nil, "kid", "en")
	assert.Nil(t, info.MinutesLeftToday)

	info.SetMinutesLeftToday(30)
	info.SetMinutesLeftToday(45)
	assert.Equal(t, 30, *info.MinutesLeftToday)

	info.SetMinutesLeftToday(-1)
	assert.Equal(t, 0, *info.MinutesLeftToday)
}

func TestSetSessionEndDatetime_KeepsEarliest(t *testing.T) {
	info := NewRuleResultInfo(nil, nil, "kid", "en")

	info.SetSessionEndDatetime(refTime.Add(time.Hour))
	info.SetSessionEndDatetime(refTime.Add(30 * time.Minute))
	info.SetSessionEndDatetime(refTime.Add(2 * time.Hour))

	assert.Equal(t, refTime.Add(30*time.Minute), *info.SessionEndDatetime)
}

func TestMinutesLeftInSession(t *testing.T) {
	tests := []struct {
		name      string
		session   *int
		extension *int
		freePlay  bool
		want      *int
	}{
		{name: "no limit at all", want: nil},
		{name: "session only", session: intPtr(20), want: intPtr(20)},
		{name: "extension only", extension: intPtr(15), want: intPtr(15)},
		{name: "both, session tighter", session: intPtr(5), extension: intPtr(15), want: intPtr(5)},
		{name: "both, extension tighter", session: intPtr(40), extension: intPtr(15), want: intPtr(15)},
		{name: "free play", session: intPtr(5), extension: intPtr(15), freePlay: true, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewRuleResultInfo(nil, nil, "kid", "en")
			info.FreePlay = tt.freePlay
			if tt.session != nil {
				info.SetMinutesLeftInSession(*tt.session)
			}
			info.MinutesLeftInTimeExtension = tt.extension

			assert.Equal(t, tt.want, info.MinutesLeftInSession())
			assert.Equal(t, tt.want != nil, info.LimitedSessionTime())
		})
	}
}

func TestAddTimeExtensionMetaData(t *testing.T) {
	tests := []struct {
		name     string
		untilEnd time.Duration
		want     int
	}{
		{name: "59 seconds rounds up", untilEnd: 59 * time.Second, want: 1},
		{name: "29 seconds rounds down", untilEnd: 29 * time.Second, want: 0},
		{name: "30 seconds rounds up", untilEnd: 30 * time.Second, want: 1},
		{name: "ten minutes", untilEnd: 10 * time.Minute, want: 10},
		{name: "already over", untilEnd: -5 * time.Minute, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &domain.TimeExtension{
				Username:          "kid",
				ReferenceDatetime: refTime.Add(-time.Hour),
				StartDatetime:     refTime.Add(-time.Hour),
				EndDatetime:       refTime.Add(tt.untilEnd),
			}

			info := NewRuleResultInfo(nil, nil, "kid", "en")
			info.AddTimeExtensionMetaData(refTime, ext)

			require.NotNil(t, info.MinutesLeftInTimeExtension)
			assert.Equal(t, tt.want, *info.MinutesLeftInTimeExtension)
			assert.True(t, info.TimeExtensionActive)
			assert.Equal(t, GrantTimeExtension, info.Granted())
			assert.Equal(t, ext.StartDatetime, *info.TimeExtensionStart)
			assert.Equal(t, ext.EndDatetime, *info.TimeExtensionEnd)
			assert.Len(t, info.Reasons, 1)
		})
	}
}

func TestAddTimeExtensionMetaData_NilClears(t *testing.T) {
	info := NewRuleResultInfo(nil, nil, "kid", "en")
	info.TimeExtensionActive = true
	info.MinutesLeftInTimeExtension = intPtr(3)

	info.AddTimeExtensionMetaData(refTime, nil)

	assert.False(t, info.TimeExtensionActive)
	assert.Nil(t, info.MinutesLeftInTimeExtension)
	assert.Zero(t, info.Granted())
}

func TestDatetimeIsPermittedByExtension(t *testing.T) {
	start := refTime
	end := refTime.Add(30 * time.Minute)

	inactive := NewRuleResultInfo(nil, nil, "kid", "en")
	assert.False(t, inactive.DatetimeIsPermittedByExtension(start))

	info := NewRuleResultInfo(nil, nil, "kid", "en")
	info.AddTimeExtensionMetaData(refTime, &domain.TimeExtension{
		ReferenceDatetime: start, StartDatetime: start, EndDatetime: end,
	})

	assert.False(t, info.DatetimeIsPermittedByExtension(start.Add(-time.Second)))
	assert.True(t, info.DatetimeIsPermittedByExtension(start))
	assert.True(t, info.DatetimeIsPermittedByExtension(start.Add(15*time.Minute)))
	assert.False(t, info.DatetimeIsPermittedByExtension(end))
}

func TestCheckApproachingLogout(t *testing.T) {
	info := NewRuleResultInfo(nil, nil, "kid", "en")
	info.CheckApproachingLogout(5, RuleTimePerDay)
	assert.Zero(t, info.ApproachingLogoutRules, "no limit never warns")

	info.SetMinutesLeftInSession(6)
	info.CheckApproachingLogout(5, RuleTimePerDay)
	assert.Zero(t, info.ApproachingLogoutRules)

	info.SetMinutesLeftInSession(5)
	info.CheckApproachingLogout(5, RuleTimePerDay)
	assert.Equal(t, RuleTimePerDay, info.ApproachingLogoutRules)

	info.CheckApproachingLogout(5, RuleTooLate)
	assert.Equal(t, RuleTimePerDay|RuleTooLate, info.ApproachingLogoutRules)

	// approaching logout never changes the decision
	assert.True(t, info.ActivityAllowed())
}

func TestArgs(t *testing.T) {
	info := NewRuleResultInfo(nil, nil, "kid", "en")
	info.SetMinutesLeftInSession(7)
	info.BreakMinutesLeft = 2

	args := info.Args()
	assert.Equal(t, "kid", args["user"])
	assert.Equal(t, "7", args["minutes_left_in_session"])
	assert.Equal(t, "", args["minutes_left_today"])
	assert.Equal(t, "2", args["break_minutes_left"])
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute+20*time.Second))
	assert.Equal(t, "2h0m", FormatDuration(2*time.Hour))
}

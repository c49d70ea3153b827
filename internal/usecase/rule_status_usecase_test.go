package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/LavaJover/little-brother/internal/domain"
	overridedto "github.com/LavaJover/little-brother/internal/usecase/dto/override"
	rulesetdto "github.com/LavaJover/little-brother/internal/usecase/dto/ruleset"
	timeextensiondto "github.com/LavaJover/little-brother/internal/usecase/dto/timeextension"
)

// limitedUser creates a user allowed one hour per day who has been playing
// on "pc" since 17:00.
func (s *UsecaseSuite) limitedUser(username string) *domain.User {
	return s.playingUser(username, &rulesetdto.UpdateRuleSetInput{MaxTimePerDay: durationPtr(time.Hour)})
}

// playingUser applies limits to the user's default rule set and starts a
// game on "pc" at 17:00.
func (s *UsecaseSuite) playingUser(username string, limits *rulesetdto.UpdateRuleSetInput) *domain.User {
	user := s.addUser(username)

	limits.RuleSetID = user.RuleSets[0].ID
	_, err := s.ruleSets.UpdateRuleSet(s.ctx, limits)
	s.Require().NoError(err)

	started := at(17, 0)
	s.tracker.HandleEvent(&domain.AdminEvent{
		Hostname:         "pc",
		Username:         username,
		PID:              4711,
		ProcessName:      "game",
		EventType:        domain.EventProcessStart,
		EventTime:        started,
		ProcessStartTime: &started,
	})

	user, err = s.users.GetUser(s.ctx, username)
	s.Require().NoError(err)
	return user
}

func (s *UsecaseSuite) TestStatus_Unrestricted() {
	s.addUser("kid")

	status, err := s.status.Status(s.ctx, "kid", at(18, 30))
	s.Require().NoError(err)

	s.True(status.ActivityAllowed)
	s.Nil(status.MinutesLeftInSession)
	s.Empty(status.Text)
	s.Empty(status.ActiveHosts)
	s.Equal([]int{5, 10, 15, 30, 45, 60}, status.TimeExtensionPeriods)
}

func (s *UsecaseSuite) TestStatus_TimePerDayExceeded() {
	s.limitedUser("kid")

	status, err := s.status.Status(s.ctx, "kid", at(18, 30))
	s.Require().NoError(err)

	s.False(status.ActivityAllowed)
	s.Equal(90, status.TodaysActivityMinutes)
	s.Equal([]string{"pc"}, status.ActiveHosts)
	s.Equal("kid, you do not have computer time left today.\nYou will be logged out.", status.Text)
	s.Equal([]string{"Activity limited to 1h0m per day"}, status.Reasons)
	s.Require().NotNil(status.MinutesLeftToday)
	s.Zero(*status.MinutesLeftToday)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.DeniedRulesTotal.WithLabelValues("time_per_day")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ActiveUsers.WithLabelValues("kid")))
}

func (s *UsecaseSuite) TestStatus_OverrideLiftsLimit() {
	s.limitedUser("kid")

	_, err := s.overrides.UpdateRuleOverride(s.ctx, &overridedto.UpdateOverrideInput{
		Username:      "kid",
		ReferenceDate: at(0, 0),
		MaxTimePerDay: durationPtr(2 * time.Hour),
	})
	s.Require().NoError(err)

	status, err := s.status.Status(s.ctx, "kid", at(18, 30))
	s.Require().NoError(err)

	s.True(status.ActivityAllowed)
	s.Require().NotNil(status.MinutesLeftToday)
	s.Equal(30, *status.MinutesLeftToday)
}

func (s *UsecaseSuite) TestStatus_UnknownUser() {
	_, err := s.status.Status(s.ctx, "nobody", at(18, 30))
	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *UsecaseSuite) TestEvaluateAll_SkipsInactiveUsers() {
	s.addUser("zoe")
	s.limitedUser("kid")
	s.addUser("max")
	s.Require().NoError(s.db.Exec("UPDATE users SET active = ? WHERE username = ?", false, "max").Error)

	evaluations, err := s.status.EvaluateAll(s.ctx, at(18, 30))
	s.Require().NoError(err)

	s.Require().Len(evaluations, 2)
	s.Equal("kid", evaluations[0].User.Username)
	s.Equal("zoe", evaluations[1].User.Username)
	s.False(evaluations[0].Info.ActivityAllowed())

	s.Equal(3.0, testutil.ToFloat64(s.metrics.ConfiguredUsers))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.MonitoredUsers))
}

func (s *UsecaseSuite) TestRequestTimeExtension() {
	user := s.limitedUser("kid")

	err := s.status.RequestTimeExtension(s.ctx, &timeextensiondto.RequestTimeExtensionInput{
		Username: "kid", AccessCode: "wrong", Minutes: 30,
	}, at(18, 30))
	s.ErrorIs(err, domain.ErrInvalidAccessCode)

	err = s.status.RequestTimeExtension(s.ctx, &timeextensiondto.RequestTimeExtensionInput{
		Username: "kid", AccessCode: user.AccessCode, Minutes: 7,
	}, at(18, 30))
	s.ErrorIs(err, domain.ErrExtensionNotPermitted)

	err = s.status.RequestTimeExtension(s.ctx, &timeextensiondto.RequestTimeExtensionInput{
		Username: "kid", AccessCode: user.AccessCode, Minutes: 30,
	}, at(18, 30))
	s.Require().NoError(err)

	status, err := s.status.Status(s.ctx, "kid", at(18, 31))
	s.Require().NoError(err)

	s.True(status.ActivityAllowed)
	s.True(status.TimeExtensionActive)
	s.Require().NotNil(status.TimeExtensionEnd)
	s.Equal(at(19, 0), status.TimeExtensionEnd.UTC())
	s.Contains(status.TimeExtensionPeriods, 0)
}

func (s *UsecaseSuite) TestExtendTime_SwitchOff() {
	s.limitedUser("kid")

	s.Require().NoError(s.status.ExtendTime(s.ctx, "kid", at(18, 30), 15))
	s.Require().NoError(s.status.ExtendTime(s.ctx, "kid", at(18, 35), 0))

	status, err := s.status.Status(s.ctx, "kid", at(18, 36))
	s.Require().NoError(err)
	s.False(status.TimeExtensionActive)
	s.False(status.ActivityAllowed)
}

func (s *UsecaseSuite) TestExtendTime_ChainsOntoSessionEnd() {
	s.playingUser("kid", &rulesetdto.UpdateRuleSetInput{
		MaxTimePerDay: durationPtr(time.Hour),
		MaxTimeOfDay:  "20",
	})

	status, err := s.status.Status(s.ctx, "kid", at(17, 50))
	s.Require().NoError(err)
	s.Require().NotNil(status.SessionEnd)
	s.Equal(at(18, 0), status.SessionEnd.UTC())

	s.Require().NoError(s.status.ExtendTime(s.ctx, "kid", at(17, 50), 30))

	status, err = s.status.Status(s.ctx, "kid", at(18, 20))
	s.Require().NoError(err)
	s.True(status.ActivityAllowed)
	s.True(status.TimeExtensionActive)
	s.Require().NotNil(status.TimeExtensionEnd)
	s.Equal(at(18, 30), status.TimeExtensionEnd.UTC())

	status, err = s.status.Status(s.ctx, "kid", at(19, 0))
	s.Require().NoError(err)
	s.False(status.TimeExtensionActive)
	s.False(status.ActivityAllowed)
}

func (s *UsecaseSuite) TestExtendTime_StartsNowWhenSessionAlreadyOver() {
	s.playingUser("kid", &rulesetdto.UpdateRuleSetInput{
		MaxActivityDuration: durationPtr(30 * time.Minute),
		MaxTimeOfDay:        "20",
	})

	s.Require().NoError(s.status.ExtendTime(s.ctx, "kid", at(17, 45), 15))

	status, err := s.status.Status(s.ctx, "kid", at(17, 50))
	s.Require().NoError(err)
	s.True(status.ActivityAllowed)
	s.Require().NotNil(status.TimeExtensionEnd)
	s.Equal(at(18, 0), status.TimeExtensionEnd.UTC())
}

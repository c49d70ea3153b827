package usecase

import (
	"time"

	overridedto "github.com/LavaJover/little-brother/internal/usecase/dto/override"
)

func (s *UsecaseSuite) TestRuleOverride_UpdateAndCache() {
	override, err := s.overrides.UpdateRuleOverride(s.ctx, &overridedto.UpdateOverrideInput{
		Username:      "kid",
		ReferenceDate: at(15, 30),
		MaxTimeOfDay:  "21",
		MaxTimePerDay: durationPtr(3 * time.Hour),
	})
	s.Require().NoError(err)
	s.Equal(at(0, 0), override.ReferenceDate)

	cached := s.overrides.Override("kid", at(8, 0))
	s.Require().NotNil(cached)
	s.Equal(21, cached.MaxTimeOfDay.Hour)
	s.Nil(s.overrides.Override("kid", at(8, 0).AddDate(0, 0, 1)))

	// second write for the same day replaces the first
	_, err = s.overrides.UpdateRuleOverride(s.ctx, &overridedto.UpdateOverrideInput{
		Username:      "kid",
		ReferenceDate: at(9, 0),
		FreePlay:      true,
	})
	s.Require().NoError(err)

	stored, err := s.overrides.GetByUsernameAndDate(s.ctx, "kid", at(0, 0))
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.True(stored.FreePlay)
	s.Nil(stored.MaxTimeOfDay)

	missing, err := s.overrides.GetByUsernameAndDate(s.ctx, "nobody", at(0, 0))
	s.NoError(err)
	s.Nil(missing)
}

func (s *UsecaseSuite) TestRuleOverride_LoadAndDeleteHistoric() {
	for _, days := range []int{-40, -3, 0, 2} {
		_, err := s.overrides.UpdateRuleOverride(s.ctx, &overridedto.UpdateOverrideInput{
			Username:      "kid",
			ReferenceDate: at(12, 0).AddDate(0, 0, days),
			FreePlay:      true,
		})
		s.Require().NoError(err)
	}

	loaded, err := s.overrides.LoadRuleOverrides(s.ctx, at(12, 0), 7)
	s.Require().NoError(err)
	s.Equal(3, loaded)
	s.Nil(s.overrides.Override("kid", at(12, 0).AddDate(0, 0, -40)))

	deleted, err := s.overrides.DeleteHistoricEntries(s.ctx, at(12, 0), 30)
	s.Require().NoError(err)
	s.EqualValues(1, deleted)
}

func (s *UsecaseSuite) TestRuleOverride_DeleteHistoricKeepsCutoffDayWestOfUTC() {
	west := time.FixedZone("UTC-5", -5*60*60)
	ref := time.Date(2024, 3, 4, 12, 0, 0, 0, west)

	for _, day := range []int{2, 3} {
		_, err := s.overrides.UpdateRuleOverride(s.ctx, &overridedto.UpdateOverrideInput{
			Username:      "kid",
			ReferenceDate: time.Date(2024, 2, day, 12, 0, 0, 0, west),
			FreePlay:      true,
		})
		s.Require().NoError(err)
	}

	_, err := s.overrides.LoadRuleOverrides(s.ctx, ref, 40)
	s.Require().NoError(err)

	deleted, err := s.overrides.DeleteHistoricEntries(s.ctx, ref, 30)
	s.Require().NoError(err)
	s.EqualValues(1, deleted)

	s.Nil(s.overrides.Override("kid", time.Date(2024, 2, 2, 12, 0, 0, 0, west)))
	s.NotNil(s.overrides.Override("kid", time.Date(2024, 2, 3, 12, 0, 0, 0, west)))

	stored, err := s.overrides.GetByUsernameAndDate(s.ctx, "kid", time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.NotNil(stored)
}

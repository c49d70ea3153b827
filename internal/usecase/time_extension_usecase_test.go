package usecase

import (
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
)

func (s *UsecaseSuite) TestPeriodsFor() {
	s.Equal([]int{5, 10, 15, 30, 45, 60}, s.extensions.PeriodsFor(nil))

	ext := &domain.TimeExtension{StartDatetime: at(18, 0), EndDatetime: at(18, 12)}
	s.Equal([]int{0, -10, -5, 5, 10, 15, 30, 45, 60}, s.extensions.PeriodsFor(ext))
}

func (s *UsecaseSuite) TestExtendForSession() {
	sessionEnd := at(19, 0)

	s.Require().NoError(s.extensions.ExtendForSession(s.ctx, "kid", at(18, 30), &sessionEnd, 30))

	active, err := s.extensions.ActiveTimeExtensions(s.ctx, at(18, 30))
	s.Require().NoError(err)
	ext := active["kid"]
	s.Require().NotNil(ext)
	s.Equal(at(19, 0), ext.StartDatetime.UTC())
	s.Equal(at(19, 30), ext.EndDatetime.UTC())

	s.Require().NoError(s.extensions.ExtendForSession(s.ctx, "kid", at(18, 40), nil, 15))
	active, err = s.extensions.ActiveTimeExtensions(s.ctx, at(18, 40))
	s.Require().NoError(err)
	s.Equal(45*time.Minute, active["kid"].Length())

	s.Require().NoError(s.extensions.ExtendForSession(s.ctx, "kid", at(18, 41), nil, 0))
	active, err = s.extensions.ActiveTimeExtensions(s.ctx, at(18, 41))
	s.Require().NoError(err)
	s.Empty(active)
}

func (s *UsecaseSuite) TestExtendForSession_PastSessionEndIgnored() {
	sessionEnd := at(17, 0)

	s.Require().NoError(s.extensions.ExtendForSession(s.ctx, "kid", at(18, 0), &sessionEnd, 10))

	active, err := s.extensions.ActiveTimeExtensions(s.ctx, at(18, 0))
	s.Require().NoError(err)
	s.Equal(at(18, 0), active["kid"].StartDatetime.UTC())
}

package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
	eventsdto "github.com/LavaJover/little-brother/internal/usecase/dto/events"
)

func (s *UsecaseSuite) TestReceiveBatch() {
	started := at(17, 0)
	kill := &domain.AdminEvent{Hostname: "pc", Username: "kid", EventType: domain.EventKillProcess, PID: 4711}
	s.events.QueueEvent(kill)
	s.events.QueueEvent(&domain.AdminEvent{Hostname: "laptop", EventType: domain.EventSpeak, Text: "hi"})

	pending, err := s.events.ReceiveBatch(s.ctx, &eventsdto.EventBatch{
		Hostname: "pc",
		Events: []*domain.AdminEvent{{
			Username:         "kid",
			PID:              4711,
			ProcessName:      "game",
			EventType:        domain.EventProcessStart,
			EventTime:        started,
			ProcessStartTime: &started,
		}},
		ClientStats: &eventsdto.ClientStats{UptimeSeconds: 120, ResidentMemoryBytes: 2048, CPUSecondsTotal: 1.5},
	})
	s.Require().NoError(err)
	s.Equal([]*domain.AdminEvent{kill}, pending)

	stats := s.tracker.Stats("kid", at(17, 30))
	s.True(stats.Active())
	s.Contains(stats.ActiveHosts, "pc")
	s.Contains(s.tracker.LastSeen(), "pc")

	var count int64
	s.Require().NoError(s.db.Model(&models.AdminEventModel{}).Where("hostname = ?", "pc").Count(&count).Error)
	s.EqualValues(1, count)

	s.Equal(120.0, testutil.ToFloat64(s.metrics.ClientUptime.WithLabelValues("pc")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.MonitoredHosts.WithLabelValues("pc")))

	// drained
	s.Empty(s.events.PendingEvents("pc"))
	s.Len(s.events.PendingEvents("laptop"), 1)
}

func (s *UsecaseSuite) TestAdminEvent_DeleteHistoricEntries() {
	for _, days := range []int{-10, -1} {
		s.Require().NoError(s.adminEvents.LogAdminEvent(s.ctx, &domain.AdminEvent{
			Hostname:  "pc",
			EventType: domain.EventStartClient,
			EventTime: at(12, 0).AddDate(0, 0, days),
		}))
	}

	deleted, err := s.adminEvents.DeleteHistoricEntries(s.ctx, at(12, 0), 5)
	s.Require().NoError(err)
	s.EqualValues(1, deleted)

	event := &domain.AdminEvent{Hostname: "pc", EventType: domain.EventStartMaster}
	s.Require().NoError(s.adminEvents.LogAdminEvent(s.ctx, event))
	s.WithinDuration(time.Now(), event.EventTime, time.Minute)
}

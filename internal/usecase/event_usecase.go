package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/metrics"
	eventsdto "github.com/LavaJover/little-brother/internal/usecase/dto/events"
)

// EventSink consumes client process events.
type EventSink interface {
	HandleEvent(event *domain.AdminEvent)
}

type EventUsecase interface {
	// ReceiveBatch records a batch sent by a client and returns the events
	// queued for that host.
	ReceiveBatch(ctx context.Context, batch *eventsdto.EventBatch) ([]*domain.AdminEvent, error)
	QueueEvent(event *domain.AdminEvent)
	PendingEvents(hostname string) []*domain.AdminEvent
}

type DefaultEventUsecase struct {
	adminEvents AdminEventUsecase
	sink        EventSink
	metrics     *metrics.RuleMetrics
	logger      *slog.Logger

	mu     sync.Mutex
	outbox map[string][]*domain.AdminEvent
}

func NewDefaultEventUsecase(adminEvents AdminEventUsecase, sink EventSink, ruleMetrics *metrics.RuleMetrics, logger *slog.Logger) *DefaultEventUsecase {
	return &DefaultEventUsecase{
		adminEvents: adminEvents,
		sink:        sink,
		metrics:     ruleMetrics,
		logger:      logger.With("component", "event_usecase"),
		outbox:      make(map[string][]*domain.AdminEvent),
	}
}

func (uc *DefaultEventUsecase) ReceiveBatch(ctx context.Context, batch *eventsdto.EventBatch) ([]*domain.AdminEvent, error) {
	for _, event := range batch.Events {
		if event.Hostname == "" {
			event.Hostname = batch.Hostname
		}

		uc.sink.HandleEvent(event)

		if err := uc.adminEvents.LogAdminEvent(ctx, event); err != nil {
			return nil, err
		}
	}

	if stats := batch.ClientStats; stats != nil {
		uc.metrics.SetClientStats(batch.Hostname,
			time.Duration(stats.UptimeSeconds*float64(time.Second)),
			float64(stats.ResidentMemoryBytes),
			stats.CPUSecondsTotal)
	}
	uc.metrics.SetHostMonitored(batch.Hostname, true)

	uc.logger.Debug("event batch received", "hostname", batch.Hostname, "events", len(batch.Events))
	return uc.PendingEvents(batch.Hostname), nil
}

// QueueEvent holds event until its host next reports in.
func (uc *DefaultEventUsecase) QueueEvent(event *domain.AdminEvent) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.outbox[event.Hostname] = append(uc.outbox[event.Hostname], event)
}

// PendingEvents drains the queue of hostname.
func (uc *DefaultEventUsecase) PendingEvents(hostname string) []*domain.AdminEvent {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	events := uc.outbox[hostname]
	delete(uc.outbox, hostname)
	return events
}

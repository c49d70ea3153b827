package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
)

type AdminEventUsecase interface {
	LogAdminEvent(ctx context.Context, event *domain.AdminEvent) error
	DeleteHistoricEntries(ctx context.Context, ref time.Time, historyDays int) (int64, error)
}

type DefaultAdminEventUsecase struct {
	eventRepo domain.AdminEventRepository
	logger    *slog.Logger
}

func NewDefaultAdminEventUsecase(eventRepo domain.AdminEventRepository, logger *slog.Logger) *DefaultAdminEventUsecase {
	return &DefaultAdminEventUsecase{
		eventRepo: eventRepo,
		logger:    logger.With("component", "admin_event_usecase"),
	}
}

func (uc *DefaultAdminEventUsecase) LogAdminEvent(ctx context.Context, event *domain.AdminEvent) error {
	if event.EventTime.IsZero() {
		event.EventTime = time.Now()
	}

	if err := uc.eventRepo.LogAdminEvent(ctx, event); err != nil {
		return fmt.Errorf("log admin event %s: %w", event.EventType, err)
	}
	return nil
}

func (uc *DefaultAdminEventUsecase) DeleteHistoricEntries(ctx context.Context, ref time.Time, historyDays int) (int64, error) {
	deleted, err := uc.eventRepo.DeleteAdminEventsBefore(ctx, domain.DateOf(ref).AddDate(0, 0, -historyDays))
	if err != nil {
		return 0, fmt.Errorf("delete historic admin events: %w", err)
	}

	uc.logger.Info("historic admin events deleted", "count", deleted)
	return deleted, nil
}

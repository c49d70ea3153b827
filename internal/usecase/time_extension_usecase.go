package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
)

type TimeExtensionUsecase interface {
	ActiveTimeExtensions(ctx context.Context, ref time.Time) (map[string]*domain.TimeExtension, error)
	ExtendForSession(ctx context.Context, username string, ref time.Time, sessionEnd *time.Time, deltaMinutes int) error
	PeriodsFor(ext *domain.TimeExtension) []int
	DeleteHistoricEntries(ctx context.Context, ref time.Time, historyDays int) (int64, error)
}

type DefaultTimeExtensionUsecase struct {
	extensionRepo domain.TimeExtensionRepository
	periods       []int
	logger        *slog.Logger
}

func NewDefaultTimeExtensionUsecase(extensionRepo domain.TimeExtensionRepository, periods []int, logger *slog.Logger) *DefaultTimeExtensionUsecase {
	return &DefaultTimeExtensionUsecase{
		extensionRepo: extensionRepo,
		periods:       periods,
		logger:        logger.With("component", "time_extension_usecase"),
	}
}

func (uc *DefaultTimeExtensionUsecase) ActiveTimeExtensions(ctx context.Context, ref time.Time) (map[string]*domain.TimeExtension, error) {
	return uc.extensionRepo.ActiveTimeExtensions(ctx, ref)
}

// ExtendForSession chains a new extension onto the end of a running session
// instead of starting it at ref. sessionEnd is nil when no session is active.
func (uc *DefaultTimeExtensionUsecase) ExtendForSession(ctx context.Context, username string, ref time.Time, sessionEnd *time.Time, deltaMinutes int) error {
	start := ref
	if sessionEnd != nil && sessionEnd.After(ref) {
		start = *sessionEnd
	}

	if err := uc.extensionRepo.SetTimeExtension(ctx, username, ref, start, deltaMinutes); err != nil {
		return fmt.Errorf("set time extension for %s: %w", username, err)
	}

	uc.logger.Info("time extension changed", "user", username, "delta_minutes", deltaMinutes, "start", start)
	return nil
}

// PeriodsFor lists the deltas an admin may apply. 0 switches an existing
// extension off; negative deltas must not shorten it past its start.
func (uc *DefaultTimeExtensionUsecase) PeriodsFor(ext *domain.TimeExtension) []int {
	var periods []int
	if ext != nil {
		periods = append(periods, 0)
	}

	for _, period := range uc.periods {
		switch {
		case period > 0:
			periods = append(periods, period)
		case period < 0 && ext != nil:
			if !ext.EndDatetime.Add(time.Duration(period) * time.Minute).Before(ext.StartDatetime) {
				periods = append(periods, period)
			}
		}
	}
	return periods
}

func (uc *DefaultTimeExtensionUsecase) DeleteHistoricEntries(ctx context.Context, ref time.Time, historyDays int) (int64, error) {
	deleted, err := uc.extensionRepo.DeleteTimeExtensionsBefore(ctx, domain.DateOf(ref).AddDate(0, 0, -historyDays))
	if err != nil {
		return 0, fmt.Errorf("delete historic time extensions: %w", err)
	}

	uc.logger.Info("historic time extensions deleted", "count", deleted)
	return deleted, nil
}

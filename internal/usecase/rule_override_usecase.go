package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
	overridedto "github.com/LavaJover/little-brother/internal/usecase/dto/override"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

type RuleOverrideUsecase interface {
	UpdateRuleOverride(ctx context.Context, input *overridedto.UpdateOverrideInput) (*domain.RuleOverride, error)
	GetByUsernameAndDate(ctx context.Context, username string, date time.Time) (*domain.RuleOverride, error)
	LoadRuleOverrides(ctx context.Context, ref time.Time, lookbackDays int) (int, error)
	Override(username string, date time.Time) *domain.RuleOverride
	DeleteHistoricEntries(ctx context.Context, ref time.Time, historyDays int) (int64, error)
}

// DefaultRuleOverrideUsecase keeps recent overrides in memory for the rule
// check loop. Writes go to the repository first and then to the cache.
type DefaultRuleOverrideUsecase struct {
	overrideRepo domain.RuleOverrideRepository
	validator    *validation.Validator
	logger       *slog.Logger

	mu        sync.RWMutex
	overrides map[string]*domain.RuleOverride
}

func NewDefaultRuleOverrideUsecase(overrideRepo domain.RuleOverrideRepository, validator *validation.Validator, logger *slog.Logger) *DefaultRuleOverrideUsecase {
	return &DefaultRuleOverrideUsecase{
		overrideRepo: overrideRepo,
		validator:    validator,
		logger:       logger.With("component", "rule_override_usecase"),
		overrides:    make(map[string]*domain.RuleOverride),
	}
}

func (uc *DefaultRuleOverrideUsecase) UpdateRuleOverride(ctx context.Context, input *overridedto.UpdateOverrideInput) (*domain.RuleOverride, error) {
	if err := uc.validator.Validate(input); err != nil {
		return nil, err
	}

	minTime, err := parseOptionalTimeOfDay(input.MinTimeOfDay)
	if err != nil {
		return nil, err
	}
	maxTime, err := parseOptionalTimeOfDay(input.MaxTimeOfDay)
	if err != nil {
		return nil, err
	}

	override := &domain.RuleOverride{
		Username:            input.Username,
		ReferenceDate:       domain.DateOf(input.ReferenceDate),
		MinTimeOfDay:        minTime,
		MaxTimeOfDay:        maxTime,
		MaxTimePerDay:       input.MaxTimePerDay,
		MaxActivityDuration: input.MaxActivityDuration,
		MinBreak:            input.MinBreak,
		FreePlay:            input.FreePlay,
	}

	if err := uc.overrideRepo.UpsertRuleOverride(ctx, override); err != nil {
		return nil, fmt.Errorf("store override %s: %w", override.Key(), err)
	}

	uc.mu.Lock()
	uc.overrides[override.Key()] = override
	uc.mu.Unlock()

	uc.logger.Info("rule override stored", "key", override.Key())
	return override, nil
}

// GetByUsernameAndDate returns nil without error when no override exists.
func (uc *DefaultRuleOverrideUsecase) GetByUsernameAndDate(ctx context.Context, username string, date time.Time) (*domain.RuleOverride, error) {
	override, err := uc.overrideRepo.GetRuleOverride(ctx, username, date)
	if errors.Is(err, domain.ErrRuleOverrideNotFound) {
		return nil, nil
	}
	return override, err
}

// LoadRuleOverrides replaces the cache with every override on or after
// lookbackDays before ref.
func (uc *DefaultRuleOverrideUsecase) LoadRuleOverrides(ctx context.Context, ref time.Time, lookbackDays int) (int, error) {
	overrides, err := uc.overrideRepo.ListRuleOverridesAfter(ctx, domain.DateOf(ref).AddDate(0, 0, -lookbackDays))
	if err != nil {
		return 0, fmt.Errorf("load rule overrides: %w", err)
	}

	loaded := make(map[string]*domain.RuleOverride, len(overrides))
	for _, override := range overrides {
		loaded[override.Key()] = override
	}

	uc.mu.Lock()
	uc.overrides = loaded
	uc.mu.Unlock()

	uc.logger.Debug("rule overrides loaded", "count", len(loaded))
	return len(loaded), nil
}

// Override looks up the cache only.
func (uc *DefaultRuleOverrideUsecase) Override(username string, date time.Time) *domain.RuleOverride {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.overrides[domain.OverrideKey(username, date)]
}

func (uc *DefaultRuleOverrideUsecase) DeleteHistoricEntries(ctx context.Context, ref time.Time, historyDays int) (int64, error) {
	cutoff := domain.DateOf(ref).AddDate(0, 0, -historyDays)

	deleted, err := uc.overrideRepo.DeleteRuleOverridesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete historic rule overrides: %w", err)
	}

	// compare calendar days; stored dates come back at UTC midnight
	day := cutoff.Format(time.DateOnly)
	uc.mu.Lock()
	for key, override := range uc.overrides {
		if override.ReferenceDate.Format(time.DateOnly) < day {
			delete(uc.overrides, key)
		}
	}
	uc.mu.Unlock()

	uc.logger.Info("historic rule overrides deleted", "count", deleted, "before", day)
	return deleted, nil
}

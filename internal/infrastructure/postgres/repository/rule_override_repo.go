package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

type DefaultRuleOverrideRepository struct {
	DB *gorm.DB
}

func NewDefaultRuleOverrideRepository(db *gorm.DB) *DefaultRuleOverrideRepository {
	return &DefaultRuleOverrideRepository{
		DB: db,
	}
}

// UpsertRuleOverride inserts the override or replaces every value of the
// existing one for the same user and date. override.ID is set to the ID of
// the stored row.
func (r *DefaultRuleOverrideRepository) UpsertRuleOverride(ctx context.Context, override *domain.RuleOverride) error {
	ensureNanoID(&override.ID)
	model := mappers.ToGORMRuleOverride(override)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "username"}, {Name: "reference_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"max_time_per_day",
				"min_time_of_day",
				"max_time_of_day",
				"min_break",
				"max_activity_duration",
				"free_play",
			}),
		}).Create(model).Error
		if err != nil {
			return err
		}

		// on conflict the existing row keeps its ID
		var stored models.RuleOverrideModel
		err = tx.Select("id").
			Where("username = ? AND reference_date = ?", model.Username, model.ReferenceDate).
			Take(&stored).Error
		if err != nil {
			return err
		}
		override.ID = stored.ID
		return nil
	})
	if err != nil {
		return err
	}

	domain.InvalidateSession(ctx)
	return nil
}

// GetRuleOverride returns ErrRuleOverrideNotFound when there is none and
// ErrRuleOverrideConflict when the uniqueness of (username, date) is broken.
func (r *DefaultRuleOverrideRepository) GetRuleOverride(ctx context.Context, username string, date time.Time) (*domain.RuleOverride, error) {
	var overrideModels []models.RuleOverrideModel
	err := r.DB.WithContext(ctx).
		Where("username = ? AND reference_date = ?", username, mappers.ToGORMDate(date)).
		Limit(2).
		Find(&overrideModels).Error
	if err != nil {
		return nil, err
	}

	switch len(overrideModels) {
	case 0:
		return nil, domain.ErrRuleOverrideNotFound
	case 1:
		return mappers.ToDomainRuleOverride(&overrideModels[0]), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrRuleOverrideConflict, domain.OverrideKey(username, date))
	}
}

func (r *DefaultRuleOverrideRepository) ListRuleOverridesAfter(ctx context.Context, date time.Time) ([]*domain.RuleOverride, error) {
	var overrideModels []models.RuleOverrideModel
	err := r.DB.WithContext(ctx).
		Where("reference_date >= ?", mappers.ToGORMDate(date)).
		Order("reference_date, username").
		Find(&overrideModels).Error
	if err != nil {
		return nil, err
	}

	overrides := make([]*domain.RuleOverride, len(overrideModels))
	for i := range overrideModels {
		overrides[i] = mappers.ToDomainRuleOverride(&overrideModels[i])
	}
	return overrides, nil
}

func (r *DefaultRuleOverrideRepository) DeleteRuleOverridesBefore(ctx context.Context, date time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("reference_date < ?", mappers.ToGORMDate(date)).
		Delete(&models.RuleOverrideModel{})
	if result.Error != nil {
		return 0, result.Error
	}

	domain.InvalidateSession(ctx)
	return result.RowsAffected, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

type DefaultRuleSetRepository struct {
	DB *gorm.DB
}

func NewDefaultRuleSetRepository(db *gorm.DB) *DefaultRuleSetRepository {
	return &DefaultRuleSetRepository{
		DB: db,
	}
}

func (r *DefaultRuleSetRepository) CreateRuleSet(ctx context.Context, ruleSet *domain.RuleSet) error {
	ensureNanoID(&ruleSet.ID)
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMRuleSet(ruleSet)).Error; err != nil {
		return err
	}
	domain.InvalidateSession(ctx)
	return nil
}

func (r *DefaultRuleSetRepository) GetRuleSetByID(ctx context.Context, ruleSetID string) (*domain.RuleSet, error) {
	var model models.RuleSetModel
	if err := r.DB.WithContext(ctx).Where("id = ?", ruleSetID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRuleSetNotFound
		}
		return nil, err
	}
	return mappers.ToDomainRuleSet(&model), nil
}

// GetUserRuleSets returns the rule sets of userID by ascending priority.
func (r *DefaultRuleSetRepository) GetUserRuleSets(ctx context.Context, userID string) ([]*domain.RuleSet, error) {
	var ruleSetModels []models.RuleSetModel
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("priority").Find(&ruleSetModels).Error; err != nil {
		return nil, err
	}

	ruleSets := make([]*domain.RuleSet, len(ruleSetModels))
	for i := range ruleSetModels {
		ruleSets[i] = mappers.ToDomainRuleSet(&ruleSetModels[i])
	}
	return ruleSets, nil
}

// UpdateRuleSet writes every column, nil limits included. Owner and priority
// are not touched; priorities only change through SwapPriorities.
func (r *DefaultRuleSetRepository) UpdateRuleSet(ctx context.Context, ruleSet *domain.RuleSet) error {
	model := mappers.ToGORMRuleSet(ruleSet)
	result := r.DB.WithContext(ctx).
		Model(&models.RuleSetModel{}).
		Where("id = ?", ruleSet.ID).
		Select("*").
		Omit("id", "user_id", "priority").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleSetNotFound
	}

	domain.InvalidateSession(ctx)
	return nil
}

func (r *DefaultRuleSetRepository) DeleteRuleSet(ctx context.Context, ruleSetID string) error {
	result := r.DB.WithContext(ctx).Delete(&models.RuleSetModel{ID: ruleSetID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleSetNotFound
	}

	domain.InvalidateSession(ctx)
	return nil
}

// SwapPriorities exchanges the priorities of two rule sets atomically and
// mirrors the change on the passed structs.
func (r *DefaultRuleSetRepository) SwapPriorities(ctx context.Context, first, second *domain.RuleSet) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RuleSetModel{}).Where("id = ?", first.ID).Update("priority", second.Priority).Error; err != nil {
			return err
		}
		return tx.Model(&models.RuleSetModel{}).Where("id = ?", second.ID).Update("priority", first.Priority).Error
	})
	if err != nil {
		return err
	}

	first.Priority, second.Priority = second.Priority, first.Priority
	domain.InvalidateSession(ctx)
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

type DefaultUserRepository struct {
	DB *gorm.DB
}

func NewDefaultUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{
		DB: db,
	}
}

func (r *DefaultUserRepository) CreateUser(ctx context.Context, user *domain.User, defaultRuleSet *domain.RuleSet) error {
	ensureNanoID(&user.ID)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserModel{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", domain.ErrUserExists, user.Username)
		}

		if err := tx.Create(mappers.ToGORMUser(user)).Error; err != nil {
			return err
		}

		if defaultRuleSet == nil {
			return nil
		}
		ensureNanoID(&defaultRuleSet.ID)
		defaultRuleSet.UserID = user.ID
		return tx.Create(mappers.ToGORMRuleSet(defaultRuleSet)).Error
	})
	if err != nil {
		return err
	}

	domain.InvalidateSession(ctx)
	return nil
}

func (r *DefaultUserRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("RuleSets").
		Preload("Devices").
		Preload("Devices.Device")
}

func (r *DefaultUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var model models.UserModel
	if err := r.preloaded(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return mappers.ToDomainUser(&model), nil
}

// ListUsers is memoised in the session carried by ctx.
func (r *DefaultUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	session := domain.SessionContextFrom(ctx)
	if cached, ok := session.Get(domain.CacheUsers); ok {
		return cached.([]*domain.User), nil
	}

	var userModels []models.UserModel
	if err := r.preloaded(ctx).Order("username").Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]*domain.User, len(userModels))
	for i := range userModels {
		users[i] = mappers.ToDomainUser(&userModels[i])
	}

	session.Set(domain.CacheUsers, users)
	return users, nil
}

func (r *DefaultUserRepository) UpdateUser(ctx context.Context, userID string, params domain.UpdateUserParams) error {
	result := r.DB.WithContext(ctx).Model(&models.UserModel{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"first_name":           params.FirstName,
		"last_name":            params.LastName,
		"locale":               params.Locale,
		"active":               params.Active,
		"process_name_pattern": params.ProcessNamePattern,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	domain.InvalidateSession(ctx)
	return nil
}

// DeleteUser removes the user with its rule sets and device assignments.
func (r *DefaultUserRepository) DeleteUser(ctx context.Context, userID string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RuleSetModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.User2DeviceModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.UserModel{ID: userID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	domain.InvalidateSession(ctx)
	return nil
}

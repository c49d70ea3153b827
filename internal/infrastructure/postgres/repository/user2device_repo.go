package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

type DefaultUser2DeviceRepository struct {
	DB *gorm.DB
}

func NewDefaultUser2DeviceRepository(db *gorm.DB) *DefaultUser2DeviceRepository {
	return &DefaultUser2DeviceRepository{
		DB: db,
	}
}

func (r *DefaultUser2DeviceRepository) CreateUser2Device(ctx context.Context, u2d *domain.User2Device) error {
	ensureNanoID(&u2d.ID)
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMUser2Device(u2d)).Error; err != nil {
		return err
	}
	domain.InvalidateSession(ctx)
	return nil
}

func (r *DefaultUser2DeviceRepository) GetUser2DeviceByID(ctx context.Context, id string) (*domain.User2Device, error) {
	var model models.User2DeviceModel
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Device").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUser2DeviceNotFound
		}
		return nil, err
	}
	return mappers.ToDomainUser2Device(&model), nil
}

func (r *DefaultUser2DeviceRepository) UpdateUser2Device(ctx context.Context, id string, active bool, percent int) error {
	result := r.DB.WithContext(ctx).Model(&models.User2DeviceModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"active":  active,
		"percent": percent,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUser2DeviceNotFound
	}

	domain.InvalidateSession(ctx)
	return nil
}

func (r *DefaultUser2DeviceRepository) DeleteUser2Device(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Delete(&models.User2DeviceModel{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUser2DeviceNotFound
	}

	domain.InvalidateSession(ctx)
	return nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

type DefaultDeviceRepository struct {
	DB *gorm.DB
}

func NewDefaultDeviceRepository(db *gorm.DB) *DefaultDeviceRepository {
	return &DefaultDeviceRepository{
		DB: db,
	}
}

func (r *DefaultDeviceRepository) CreateDevice(ctx context.Context, device *domain.Device) error {
	ensureNanoID(&device.ID)
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMDevice(device)).Error; err != nil {
		return err
	}
	domain.InvalidateSession(ctx)
	return nil
}

func (r *DefaultDeviceRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Users").
		Preload("Users.User")
}

func (r *DefaultDeviceRepository) GetDeviceByID(ctx context.Context, deviceID string) (*domain.Device, error) {
	return r.first(r.preloaded(ctx).Where("id = ?", deviceID))
}

func (r *DefaultDeviceRepository) GetDeviceByName(ctx context.Context, deviceName string) (*domain.Device, error) {
	return r.first(r.preloaded(ctx).Where("device_name = ?", deviceName))
}

func (r *DefaultDeviceRepository) first(query *gorm.DB) (*domain.Device, error) {
	var model models.DeviceModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDevice(&model), nil
}

// ListDevices is memoised in the session carried by ctx.
func (r *DefaultDeviceRepository) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	session := domain.SessionContextFrom(ctx)
	if cached, ok := session.Get(domain.CacheDevices); ok {
		return cached.([]*domain.Device), nil
	}

	var deviceModels []models.DeviceModel
	if err := r.preloaded(ctx).Order("device_name").Find(&deviceModels).Error; err != nil {
		return nil, err
	}

	devices := make([]*domain.Device, len(deviceModels))
	for i := range deviceModels {
		devices[i] = mappers.ToDomainDevice(&deviceModels[i])
	}

	session.Set(domain.CacheDevices, devices)
	return devices, nil
}

func (r *DefaultDeviceRepository) UpdateDevice(ctx context.Context, deviceID string, params domain.UpdateDeviceParams) error {
	result := r.DB.WithContext(ctx).Model(&models.DeviceModel{}).Where("id = ?", deviceID).Updates(map[string]interface{}{
		"device_name":           params.DeviceName,
		"hostname":              params.Hostname,
		"min_activity_duration": params.MinActivityDuration,
		"max_active_ping_delay": params.MaxActivePingDelay,
		"sample_size":           params.SampleSize,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDeviceNotFound
	}

	domain.InvalidateSession(ctx)
	return nil
}

// DeleteDevice removes the device with its user assignments.
func (r *DefaultDeviceRepository) DeleteDevice(ctx context.Context, deviceID string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", deviceID).Delete(&models.User2DeviceModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.DeviceModel{ID: deviceID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrDeviceNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	domain.InvalidateSession(ctx)
	return nil
}

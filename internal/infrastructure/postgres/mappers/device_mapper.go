package mappers

import (
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func ToGORMDevice(device *domain.Device) *models.DeviceModel {
	return &models.DeviceModel{
		ID:                  device.ID,
		DeviceName:          device.DeviceName,
		Hostname:            device.Hostname,
		MinActivityDuration: device.MinActivityDuration,
		MaxActivePingDelay:  device.MaxActivePingDelay,
		SampleSize:          device.SampleSize,
	}
}

func ToDomainDevice(model *models.DeviceModel) *domain.Device {
	device := &domain.Device{
		ID:                  model.ID,
		DeviceName:          model.DeviceName,
		Hostname:            model.Hostname,
		MinActivityDuration: model.MinActivityDuration,
		MaxActivePingDelay:  model.MaxActivePingDelay,
		SampleSize:          model.SampleSize,
	}

	for i := range model.Users {
		u2d := ToDomainUser2Device(&model.Users[i])
		u2d.DeviceName = model.DeviceName
		device.Users = append(device.Users, u2d)
	}

	return device
}

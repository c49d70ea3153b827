package mappers

import (
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func ToGORMUser2Device(u2d *domain.User2Device) *models.User2DeviceModel {
	return &models.User2DeviceModel{
		ID:       u2d.ID,
		UserID:   u2d.UserID,
		DeviceID: u2d.DeviceID,
		Active:   u2d.Active,
		Percent:  u2d.Percent,
	}
}

func ToDomainUser2Device(model *models.User2DeviceModel) *domain.User2Device {
	u2d := &domain.User2Device{
		ID:       model.ID,
		UserID:   model.UserID,
		DeviceID: model.DeviceID,
		Active:   model.Active,
		Percent:  model.Percent,
	}
	if model.Device != nil {
		u2d.DeviceName = model.Device.DeviceName
	}
	if model.User != nil {
		u2d.Username = model.User.Username
	}
	return u2d
}

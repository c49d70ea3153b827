package models

import "time"

type DeviceModel struct {
	ID                  string `gorm:"primaryKey"`
	DeviceName          string `gorm:"uniqueIndex;not null"`
	Hostname            string
	MinActivityDuration int
	MaxActivePingDelay  int
	SampleSize          int

	Users []User2DeviceModel `gorm:"foreignKey:DeviceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DeviceModel) TableName() string {
	return "devices"
}

package models

import "time"

type TimeExtensionModel struct {
	ID                string    `gorm:"primaryKey"`
	Username          string    `gorm:"index;not null"`
	ReferenceDatetime time.Time `gorm:"index;not null"`
	StartDatetime     time.Time `gorm:"not null"`
	EndDatetime       time.Time `gorm:"not null"`
}

func (TimeExtensionModel) TableName() string {
	return "time_extensions"
}

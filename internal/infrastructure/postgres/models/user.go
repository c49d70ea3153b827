package models

import "time"

type UserModel struct {
	ID                           string `gorm:"primaryKey"`
	Username                     string `gorm:"uniqueIndex;not null"`
	FirstName                    string
	LastName                     string
	Locale                       string
	Active                       bool
	AccessCode                   string `gorm:"index"`
	ProcessNamePattern           string
	ProhibitedProcessNamePattern string

	RuleSets []RuleSetModel     `gorm:"foreignKey:UserID"`
	Devices  []User2DeviceModel `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

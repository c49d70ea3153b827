package models

import "gorm.io/datatypes"

type RuleOverrideModel struct {
	ID            string         `gorm:"primaryKey"`
	Username      string         `gorm:"uniqueIndex:idx_rule_override_user_date;not null"`
	ReferenceDate datatypes.Date `gorm:"uniqueIndex:idx_rule_override_user_date;not null"`

	MaxTimePerDay       *int64
	MinTimeOfDay        *datatypes.Time
	MaxTimeOfDay        *datatypes.Time
	MinBreak            *int64
	MaxActivityDuration *int64
	FreePlay            bool
}

func (RuleOverrideModel) TableName() string {
	return "rule_overrides"
}

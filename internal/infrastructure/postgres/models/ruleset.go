package models

import "gorm.io/datatypes"

// RuleSetModel stores durations as whole seconds.
type RuleSetModel struct {
	ID             string `gorm:"primaryKey"`
	UserID         string `gorm:"index;not null"`
	Context        string `gorm:"not null"`
	ContextDetails string
	ContextLabel   string
	Priority       int `gorm:"not null"`

	MinTimeOfDay        *datatypes.Time
	MaxTimeOfDay        *datatypes.Time
	MaxTimePerDay       *int64
	MaxActivityDuration *int64
	MinBreak            *int64
	OptionalTimePerDay  *int64
	FreePlay            bool
}

func (RuleSetModel) TableName() string {
	return "rule_sets"
}

package models

import "time"

type AdminEventModel struct {
	ID               string `gorm:"primaryKey"`
	Hostname         string `gorm:"index"`
	Username         string `gorm:"index"`
	PID              int
	ProcessHandler   string
	ProcessName      string
	EventType        string    `gorm:"not null"`
	EventTime        time.Time `gorm:"index;not null"`
	ProcessStartTime *time.Time
	Downtime         int
	Text             string
	Locale           string
	Percent          int
}

func (AdminEventModel) TableName() string {
	return "admin_events"
}

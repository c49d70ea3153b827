package domain

import (
	"context"
	"time"
)

type AdminEventType string

const (
	EventStartMaster       AdminEventType = "START_MASTER"
	EventStartClient       AdminEventType = "START_CLIENT"
	EventStopClient        AdminEventType = "STOP_CLIENT"
	EventKillProcess       AdminEventType = "KILL_PROCESS"
	EventSpeak             AdminEventType = "SPEAK"
	EventProcessStart      AdminEventType = "PROCESS_START"
	EventProcessEnd        AdminEventType = "PROCESS_END"
	EventProcessDowntime   AdminEventType = "PROCESS_DOWNTIME"
	EventProhibitedProcess AdminEventType = "PROHIBITED_PROCESS"
)

type AdminEvent struct {
	ID               string         `json:"id,omitempty"`
	Hostname         string         `json:"hostname"`
	Username         string         `json:"username,omitempty"`
	PID              int            `json:"pid,omitempty"`
	ProcessHandler   string         `json:"processhandler,omitempty"`
	ProcessName      string         `json:"processname,omitempty"`
	EventType        AdminEventType `json:"event_type"`
	EventTime        time.Time      `json:"event_time"`
	ProcessStartTime *time.Time     `json:"process_start_time,omitempty"`
	Downtime         int            `json:"downtime,omitempty"`
	Text             string         `json:"text,omitempty"`
	Locale           string         `json:"locale,omitempty"`
	Percent          int            `json:"percent,omitempty"`
}

type AdminEventRepository interface {
	LogAdminEvent(ctx context.Context, event *AdminEvent) error
	DeleteAdminEventsBefore(ctx context.Context, ts time.Time) (int64, error)
}

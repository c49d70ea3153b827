package eventsdto

import "github.com/LavaJover/little-brother/internal/domain"

type ClientStats struct {
	UptimeSeconds       float64 `json:"uptime_in_seconds"`
	ResidentMemoryBytes int64   `json:"resident_memory_in_bytes"`
	CPUSecondsTotal     float64 `json:"cpu_seconds_total"`
}

// EventBatch is the envelope exchanged between clients and the master.
type EventBatch struct {
	Secret      string               `json:"secret"`
	Hostname    string               `json:"hostname"`
	Events      []*domain.AdminEvent `json:"events"`
	ClientStats *ClientStats         `json:"client_stats,omitempty"`
}

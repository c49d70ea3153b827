package api

import "github.com/LavaJover/little-brother/internal/domain"

const (
	RouteEvents               = "/api/events"
	RouteStatus               = "/api/status"
	RouteRequestTimeExtension = "/api/request-time-extension"
	RouteMetrics              = "/metrics"

	ParamUsername        = "username"
	ParamSecret          = "secret"
	ParamExtensionLength = "extension_length"
)

// EventsResponse carries the events the master queued for the sending host.
type EventsResponse struct {
	Events []*domain.AdminEvent `json:"events"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

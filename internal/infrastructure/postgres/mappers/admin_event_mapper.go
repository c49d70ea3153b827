package mappers

import (
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

func ToGORMAdminEvent(event *domain.AdminEvent) *models.AdminEventModel {
	return &models.AdminEventModel{
		ID:               event.ID,
		Hostname:         event.Hostname,
		Username:         event.Username,
		PID:              event.PID,
		ProcessHandler:   event.ProcessHandler,
		ProcessName:      event.ProcessName,
		EventType:        string(event.EventType),
		EventTime:        event.EventTime,
		ProcessStartTime: event.ProcessStartTime,
		Downtime:         event.Downtime,
		Text:             event.Text,
		Locale:           event.Locale,
		Percent:          event.Percent,
	}
}

func ToDomainAdminEvent(model *models.AdminEventModel) *domain.AdminEvent {
	return &domain.AdminEvent{
		ID:               model.ID,
		Hostname:         model.Hostname,
		Username:         model.Username,
		PID:              model.PID,
		ProcessHandler:   model.ProcessHandler,
		ProcessName:      model.ProcessName,
		EventType:        domain.AdminEventType(model.EventType),
		EventTime:        model.EventTime,
		ProcessStartTime: model.ProcessStartTime,
		Downtime:         model.Downtime,
		Text:             model.Text,
		Locale:           model.Locale,
		Percent:          model.Percent,
	}
}

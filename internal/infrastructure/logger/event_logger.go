package logger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/models"
)

// PGAdminEventLogger keeps the admin event history (kills, warnings, client
// start/stop) in the database.
type PGAdminEventLogger struct {
	db *gorm.DB
}

func NewPGAdminEventLogger(db *gorm.DB) *PGAdminEventLogger {
	return &PGAdminEventLogger{db: db}
}

func (l *PGAdminEventLogger) LogAdminEvent(ctx context.Context, event *domain.AdminEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	return l.db.WithContext(ctx).Create(mappers.ToGORMAdminEvent(event)).Error
}

func (l *PGAdminEventLogger) DeleteAdminEventsBefore(ctx context.Context, ts time.Time) (int64, error) {
	result := l.db.WithContext(ctx).Where("event_time < ?", ts).Delete(&models.AdminEventModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

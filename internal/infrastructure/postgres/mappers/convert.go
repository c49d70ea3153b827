package mappers

import (
	"time"

	"gorm.io/datatypes"

	"github.com/LavaJover/little-brother/internal/domain"
)

func toGORMTime(t *domain.TimeOfDay) *datatypes.Time {
	if t == nil {
		return nil
	}
	v := datatypes.NewTime(t.Hour, t.Minute, 0, 0)
	return &v
}

func toDomainTimeOfDay(t *datatypes.Time) *domain.TimeOfDay {
	if t == nil {
		return nil
	}
	d := time.Duration(*t)
	return &domain.TimeOfDay{
		Hour:   int(d / time.Hour),
		Minute: int(d % time.Hour / time.Minute),
	}
}

func toSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(*d / time.Second)
	return &s
}

func toDuration(seconds *int64) *time.Duration {
	if seconds == nil {
		return nil
	}
	d := time.Duration(*seconds) * time.Second
	return &d
}

// ToGORMDate keeps only the calendar date of ts, in UTC.
func ToGORMDate(ts time.Time) datatypes.Date {
	y, m, d := ts.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func toDomainDate(d datatypes.Date) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

package domain

import (
	"context"
	"time"
)

// TimeExtension grants play time in [StartDatetime, EndDatetime). It is
// looked up by ReferenceDatetime, the instant at which it was granted.
type TimeExtension struct {
	ID                string
	Username          string
	ReferenceDatetime time.Time
	StartDatetime     time.Time
	EndDatetime       time.Time
}

// ActiveAt reports whether the extension is the current one for instant r.
func (te *TimeExtension) ActiveAt(r time.Time) bool {
	return !r.Before(te.ReferenceDatetime) && r.Before(te.EndDatetime)
}

func (te *TimeExtension) Length() time.Duration {
	return te.EndDatetime.Sub(te.StartDatetime)
}

type TimeExtensionRepository interface {
	// ActiveTimeExtensions maps username to the extension active at ref.
	ActiveTimeExtensions(ctx context.Context, ref time.Time) (map[string]*TimeExtension, error)
	// SetTimeExtension creates, extends, shortens or removes the extension of
	// username active at ref by deltaMinutes.
	SetTimeExtension(ctx context.Context, username string, ref, start time.Time, deltaMinutes int) error
	DeleteTimeExtensionsBefore(ctx context.Context, ts time.Time) (int64, error)
}

package domain

import "time"

type ProcessRef struct {
	ProcessHandler string
	PID            int
	StartTime      time.Time
}

// ActivityStats summarises one user's activity as seen at ReferenceTime.
type ActivityStats struct {
	Username      string
	ReferenceTime time.Time

	TodaysActivity    time.Duration
	CurrentActivity   *time.Duration
	PreviousActivity  *time.Duration
	SinceLastActivity *time.Duration

	// ActiveHosts lists running processes per hostname.
	ActiveHosts map[string][]ProcessRef
}

func (s *ActivityStats) Active() bool {
	return s.CurrentActivity != nil
}

package activity

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
)

type Config struct {
	// MinActivityDuration is the shortest activity that counts as a session
	// for break calculation.
	MinActivityDuration time.Duration
	LookbackDays        int
}

type processKey struct {
	hostname string
	pid      int
	start    int64
}

type processInfo struct {
	username       string
	hostname       string
	processName    string
	processHandler string
	pid            int
	start          time.Time
	end            *time.Time
	downtime       time.Duration
}

// Tracker turns process start and end events reported by clients into
// per-user activity statistics.
type Tracker struct {
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	processes map[processKey]*processInfo
	lastSeen  map[string]time.Time
}

func NewTracker(cfg Config, logger *slog.Logger) *Tracker {
	return &Tracker{
		cfg:       cfg,
		logger:    logger.With("component", "activity_tracker"),
		processes: make(map[processKey]*processInfo),
		lastSeen:  make(map[string]time.Time),
	}
}

func keyOf(event *domain.AdminEvent) (processKey, bool) {
	if event.ProcessStartTime == nil {
		return processKey{}, false
	}
	return processKey{hostname: event.Hostname, pid: event.PID, start: event.ProcessStartTime.UnixNano()}, true
}

// HandleEvent applies one client event. Events unrelated to processes only
// refresh the host's last contact.
func (t *Tracker) HandleEvent(event *domain.AdminEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if event.Hostname != "" && event.EventTime.After(t.lastSeen[event.Hostname]) {
		t.lastSeen[event.Hostname] = event.EventTime
	}

	switch event.EventType {
	case domain.EventProcessStart, domain.EventProcessEnd, domain.EventProcessDowntime:
	default:
		return
	}

	key, ok := keyOf(event)
	if !ok {
		t.logger.Warn("process event without start time", "event_type", event.EventType, "hostname", event.Hostname, "pid", event.PID)
		return
	}

	pinfo, known := t.processes[key]
	if !known {
		pinfo = &processInfo{
			username:       event.Username,
			hostname:       event.Hostname,
			processName:    event.ProcessName,
			processHandler: event.ProcessHandler,
			pid:            event.PID,
			start:          *event.ProcessStartTime,
		}
		t.processes[key] = pinfo
	}

	switch event.EventType {
	case domain.EventProcessEnd:
		end := event.EventTime
		pinfo.end = &end
	case domain.EventProcessDowntime:
		pinfo.downtime = max(pinfo.downtime, time.Duration(event.Downtime)*time.Second)
	}
}

// LastSeen maps each hostname to the time of its latest event.
func (t *Tracker) LastSeen() map[string]time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[string]time.Time, len(t.lastSeen))
	for host, ts := range t.lastSeen {
		seen[host] = ts
	}
	return seen
}

// Prune forgets processes that ended before ts and returns how many.
func (t *Tracker) Prune(ts time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	pruned := 0
	for key, pinfo := range t.processes {
		if pinfo.end != nil && pinfo.end.Before(ts) {
			delete(t.processes, key)
			pruned++
		}
	}
	return pruned
}

type boundary struct {
	at    time.Time
	start bool
	pinfo *processInfo
}

type activity struct {
	start    time.Time
	end      *time.Time
	downtime time.Duration
}

func (a *activity) duration() time.Duration {
	return max(a.end.Sub(a.start)-a.downtime, 0)
}

func (a *activity) durationAt(ref time.Time) time.Duration {
	return max(ref.Sub(a.start)-a.downtime, 0)
}

// Stats sweeps the process boundaries of username in time order. Overlapping
// processes, on any host, form a single activity.
func (t *Tracker) Stats(username string, ref time.Time) *domain.ActivityStats {
	t.mu.Lock()
	boundaries, lastBoundary := t.boundariesOf(username, ref)
	t.mu.Unlock()

	stats := &domain.ActivityStats{
		Username:      username,
		ReferenceTime: ref,
		ActiveHosts:   make(map[string][]domain.ProcessRef),
	}

	// running processes end at the sweep horizon
	horizon := ref
	if lastBoundary.After(horizon) {
		horizon = lastBoundary
	}
	for _, b := range boundaries {
		if b.start && b.pinfo.end == nil {
			boundaries = append(boundaries, boundary{at: horizon, pinfo: b.pinfo})
		}
	}
	sortBoundaries(boundaries)

	refDate := domain.DateOf(ref)
	var (
		active             int
		current, previous  *activity
		lastInactivityFrom *time.Time
		closedToday        time.Duration
	)

	for _, b := range boundaries {
		if b.start {
			if active == 0 {
				current = &activity{start: b.at}
			}
			current.downtime = max(current.downtime, b.pinfo.downtime)
			active++
			continue
		}

		if b.pinfo.end == nil {
			stats.ActiveHosts[b.pinfo.hostname] = append(stats.ActiveHosts[b.pinfo.hostname], domain.ProcessRef{
				ProcessHandler: b.pinfo.processHandler,
				PID:            b.pinfo.pid,
				StartTime:      b.pinfo.start,
			})
		}

		if active == 0 {
			t.logger.Warn("process end without matching start", "user", username, "hostname", b.pinfo.hostname)
			continue
		}
		active--

		if active > 0 || b.pinfo.end == nil {
			continue
		}

		end := b.at
		current.end = &end
		current.downtime = max(current.downtime, b.pinfo.downtime)

		if domain.DateOf(current.start.In(ref.Location())).Equal(refDate) {
			closedToday += current.duration()
		}

		if current.duration() > t.cfg.MinActivityDuration {
			lastInactivityFrom = &end
			previous = current
		}
		current = nil
	}

	stats.TodaysActivity = closedToday
	if current != nil {
		d := current.durationAt(ref)
		stats.CurrentActivity = &d
		stats.TodaysActivity += d
	}

	if previous != nil {
		d := previous.duration()
		stats.PreviousActivity = &d
	}

	switch {
	case lastInactivityFrom != nil:
		d := ref.Sub(*lastInactivityFrom)
		stats.SinceLastActivity = &d
	case current != nil:
		var zero time.Duration
		stats.SinceLastActivity = &zero
	}

	return stats
}

func (t *Tracker) boundariesOf(username string, ref time.Time) ([]boundary, time.Time) {
	var (
		boundaries []boundary
		last       time.Time
		cutoff     time.Time
	)
	if t.cfg.LookbackDays > 0 {
		cutoff = domain.DateOf(ref).AddDate(0, 0, -t.cfg.LookbackDays)
	}

	for _, pinfo := range t.processes {
		if pinfo.username != username {
			continue
		}
		if pinfo.end != nil && pinfo.end.Before(cutoff) {
			continue
		}

		boundaries = append(boundaries, boundary{at: pinfo.start, start: true, pinfo: pinfo})
		if pinfo.start.After(last) {
			last = pinfo.start
		}

		if pinfo.end != nil {
			boundaries = append(boundaries, boundary{at: *pinfo.end, pinfo: pinfo})
			if pinfo.end.After(last) {
				last = *pinfo.end
			}
		}
	}
	return boundaries, last
}

// sortBoundaries orders by time; at equal times starts come first so that
// back-to-back processes form one activity.
func sortBoundaries(boundaries []boundary) {
	sort.SliceStable(boundaries, func(i, j int) bool {
		if !boundaries[i].at.Equal(boundaries[j].at) {
			return boundaries[i].at.Before(boundaries[j].at)
		}
		return boundaries[i].start && !boundaries[j].start
	})
}

// Usernames lists every user with a known process.
func (t *Tracker) Usernames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[string]struct{})
	for _, pinfo := range t.processes {
		seen[pinfo.username] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/kafka"
	"github.com/LavaJover/little-brother/internal/infrastructure/metrics"
	"github.com/LavaJover/little-brother/internal/infrastructure/notifier"
	"github.com/LavaJover/little-brother/internal/rules"
	"github.com/LavaJover/little-brother/internal/usecase"
	"github.com/LavaJover/little-brother/internal/usecase/activity"
	eventsdto "github.com/LavaJover/little-brother/internal/usecase/dto/events"
)

const (
	DefaultCheckInterval          = 10 * time.Second
	DefaultCleanupInterval        = 24 * time.Hour
	DefaultOverrideReloadInterval = 10 * time.Minute

	notificationTitle = "Little Brother"
)

type Config struct {
	CheckInterval          time.Duration
	CleanupInterval        time.Duration
	OverrideReloadInterval time.Duration

	ProcessLookbackDays     int
	AdminEventHistoryDays   int
	RuleOverrideHistoryDays int

	ClientEventsTopic string
	AdminEventsTopic  string
	GroupID           string
}

// AdminEventPublisher forwards queued admin events to clients over the bus.
type AdminEventPublisher interface {
	PublishAdminEvents(ctx context.Context, topic string, events []*domain.AdminEvent) error
}

// BatchChecker verifies the shared secret of a client batch.
type BatchChecker interface {
	CheckBatch(batch *eventsdto.EventBatch) error
}

// Runner is a blocking task such as the rule file watcher.
type Runner interface {
	Run(ctx context.Context) error
}

// Usecases groups what the loops act on.
type Usecases struct {
	Status      usecase.RuleStatusUsecase
	Events      usecase.EventUsecase
	Overrides   usecase.RuleOverrideUsecase
	Extensions  usecase.TimeExtensionUsecase
	AdminEvents usecase.AdminEventUsecase
	Devices     usecase.DeviceUsecase
}

// Bus is optional; without it clients talk to the master over HTTP only.
type Bus struct {
	Publisher  AdminEventPublisher
	Subscriber domain.SubscriberPort
	Checker    BatchChecker
}

type BackgroundTasks struct {
	cfg      Config
	uc       Usecases
	bus      Bus
	tracker  *activity.Tracker
	texts    *rules.Texts
	notifier notifier.Notifier
	runners  []Runner
	metrics  *metrics.RuleMetrics
	logger   *slog.Logger
	now      func() time.Time

	mu sync.Mutex
	// sessions remembers users with an ongoing activity at the last check.
	sessions map[string]bool
	// warnedAt holds the minutes left when a user was last warned.
	warnedAt map[string]int
}

func NewBackgroundTasks(
	cfg Config,
	uc Usecases,
	bus Bus,
	tracker *activity.Tracker,
	texts *rules.Texts,
	n notifier.Notifier,
	ruleMetrics *metrics.RuleMetrics,
	logger *slog.Logger,
	runners ...Runner,
) *BackgroundTasks {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.OverrideReloadInterval <= 0 {
		cfg.OverrideReloadInterval = DefaultOverrideReloadInterval
	}
	if n == nil {
		n = notifier.MultiNotifier{}
	}

	return &BackgroundTasks{
		cfg:      cfg,
		uc:       uc,
		bus:      bus,
		tracker:  tracker,
		texts:    texts,
		notifier: n,
		runners:  runners,
		metrics:  ruleMetrics,
		logger:   logger.With("component", "background"),
		now:      time.Now,
		sessions: make(map[string]bool),
		warnedAt: make(map[string]int),
	}
}

// StartAll runs every loop until ctx is done. The first failing runner
// cancels the others.
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return bt.every(ctx, bt.cfg.CheckInterval, "rule check", bt.CheckRules) })
	g.Go(func() error { return bt.every(ctx, bt.cfg.CleanupInterval, "history cleanup", bt.CleanupHistory) })
	g.Go(func() error { return bt.every(ctx, bt.cfg.OverrideReloadInterval, "override reload", bt.ReloadOverrides) })

	if bt.bus.Subscriber != nil {
		g.Go(func() error { return bt.consumeClientEvents(ctx) })
	}
	for _, r := range bt.runners {
		g.Go(func() error { return r.Run(ctx) })
	}

	return g.Wait()
}

// every runs task once right away and then on each tick. Task errors are
// logged and do not stop the loop.
func (bt *BackgroundTasks) every(ctx context.Context, interval time.Duration, name string, task func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			bt.logger.Error("background task failed", "task", name, "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// CheckRules evaluates every monitored user, queues kill and speak events
// for the hosts a user is active on and notifies the user.
func (bt *BackgroundTasks) CheckRules(ctx context.Context) error {
	ctx = domain.WithSessionContext(ctx, domain.NewSessionContext())
	now := bt.now()

	evaluations, err := bt.uc.Status.EvaluateAll(ctx, now)
	if err != nil {
		return err
	}

	var queued []*domain.AdminEvent
	for _, e := range evaluations {
		queued = append(queued, bt.actOn(ctx, e, now)...)
	}

	// logging assigns the ID, so it has to happen before the event is shared
	for _, event := range queued {
		if err := bt.uc.AdminEvents.LogAdminEvent(ctx, event); err != nil {
			bt.logger.Warn("cannot log admin event", "event_type", event.EventType, "error", err)
		}
		bt.uc.Events.QueueEvent(event)
	}

	if bt.bus.Publisher != nil && len(queued) > 0 {
		if err := bt.bus.Publisher.PublishAdminEvents(ctx, bt.cfg.AdminEventsTopic, queued); err != nil {
			bt.logger.Error("cannot publish admin events", "error", err)
		}
	}

	bt.updateHostMetrics(ctx, now)
	return nil
}

func (bt *BackgroundTasks) actOn(ctx context.Context, e *usecase.Evaluation, now time.Time) []*domain.AdminEvent {
	username := e.User.Username
	info := e.Info

	bt.mu.Lock()
	wasActive := bt.sessions[username]
	bt.sessions[username] = e.Stats.Active()
	if !e.Stats.Active() {
		delete(bt.warnedAt, username)
	}
	bt.mu.Unlock()

	if !e.Stats.Active() {
		return nil
	}

	var events []*domain.AdminEvent

	switch {
	case !info.ActivityAllowed():
		text := bt.texts.ForRuleSet(info)
		for hostname, processes := range e.Stats.ActiveHosts {
			for _, p := range processes {
				started := p.StartTime
				events = append(events, &domain.AdminEvent{
					Hostname:         hostname,
					Username:         username,
					PID:              p.PID,
					ProcessHandler:   p.ProcessHandler,
					ProcessStartTime: &started,
					EventType:        domain.EventKillProcess,
					EventTime:        now,
				})
			}
			events = append(events, speak(hostname, username, e.User.Locale, text, now))
			bt.notify(ctx, hostname, username, e.User.Locale, text, true)
		}
		bt.metrics.RecordForcedLogout(username)
		bt.logger.Info("forcing logout", "user", username, "applying_rules", info.ApplyingRules().String())

	case info.ApproachingLogoutRules != 0 && bt.shouldWarn(username, info.MinutesLeftInSession()):
		text := bt.texts.ForApproachingLogout(info)
		for hostname := range e.Stats.ActiveHosts {
			events = append(events, speak(hostname, username, e.User.Locale, text, now))
			bt.notify(ctx, hostname, username, e.User.Locale, text, false)
		}
		bt.metrics.RecordLogoutWarning(username)

	case !wasActive:
		text := bt.texts.SessionStart(info)
		for hostname := range e.Stats.ActiveHosts {
			events = append(events, speak(hostname, username, e.User.Locale, text, now))
		}
	}

	return events
}

// shouldWarn allows one warning per distinct number of minutes left.
func (bt *BackgroundTasks) shouldWarn(username string, minutesLeft *int) bool {
	left := -1
	if minutesLeft != nil {
		left = *minutesLeft
	}

	bt.mu.Lock()
	defer bt.mu.Unlock()

	if last, ok := bt.warnedAt[username]; ok && last == left {
		return false
	}
	bt.warnedAt[username] = left
	return true
}

func speak(hostname, username, locale, text string, now time.Time) *domain.AdminEvent {
	return &domain.AdminEvent{
		Hostname:  hostname,
		Username:  username,
		EventType: domain.EventSpeak,
		EventTime: now,
		Text:      text,
		Locale:    locale,
	}
}

func (bt *BackgroundTasks) notify(ctx context.Context, hostname, username, locale, text string, urgent bool) {
	err := bt.notifier.Notify(ctx, notifier.Notification{
		Username: username,
		Hostname: hostname,
		Title:    notificationTitle,
		Text:     text,
		Locale:   locale,
		Urgent:   urgent,
	})
	if err != nil {
		bt.logger.Warn("notification failed", "user", username, "hostname", hostname, "error", err)
	}
}

// updateHostMetrics marks hosts that missed three checks as no longer
// monitored.
func (bt *BackgroundTasks) updateHostMetrics(ctx context.Context, now time.Time) {
	timeout := 3 * bt.cfg.CheckInterval
	for hostname, seen := range bt.tracker.LastSeen() {
		bt.metrics.SetHostMonitored(hostname, now.Sub(seen) <= timeout)
	}

	devices, err := bt.uc.Devices.Devices(ctx)
	if err != nil {
		bt.logger.Warn("cannot count devices", "error", err)
		return
	}
	bt.metrics.SetDeviceCount(len(devices))
}

func (bt *BackgroundTasks) CleanupHistory(ctx context.Context) error {
	now := bt.now()

	if _, err := bt.uc.AdminEvents.DeleteHistoricEntries(ctx, now, bt.cfg.AdminEventHistoryDays); err != nil {
		return err
	}
	if _, err := bt.uc.Overrides.DeleteHistoricEntries(ctx, now, bt.cfg.RuleOverrideHistoryDays); err != nil {
		return err
	}
	if _, err := bt.uc.Extensions.DeleteHistoricEntries(ctx, now, bt.cfg.RuleOverrideHistoryDays); err != nil {
		return err
	}

	pruned := bt.tracker.Prune(domain.DateOf(now).AddDate(0, 0, -bt.cfg.ProcessLookbackDays))
	bt.logger.Debug("process history pruned", "processes", pruned)
	return nil
}

func (bt *BackgroundTasks) ReloadOverrides(ctx context.Context) error {
	_, err := bt.uc.Overrides.LoadRuleOverrides(ctx, bt.now(), bt.cfg.ProcessLookbackDays)
	return err
}

// consumeClientEvents handles batches clients publish on the bus. Events
// queued for a host are answered on the admin events topic.
func (bt *BackgroundTasks) consumeClientEvents(ctx context.Context) error {
	msgs, err := bt.bus.Subscriber.Subscribe(ctx, bt.cfg.ClientEventsTopic, bt.cfg.GroupID)
	if err != nil {
		return err
	}

	for msg := range msgs {
		batch, err := kafka.DecodeEventBatch(msg)
		if err != nil {
			bt.logger.Warn("dropping client message", "error", err)
			continue
		}

		if bt.bus.Checker != nil {
			if err := bt.bus.Checker.CheckBatch(batch); err != nil {
				continue
			}
		}

		pending, err := bt.uc.Events.ReceiveBatch(ctx, batch)
		if err != nil {
			bt.logger.Error("cannot process client batch", "hostname", batch.Hostname, "error", err)
			continue
		}

		if bt.bus.Publisher != nil && len(pending) > 0 {
			if err := bt.bus.Publisher.PublishAdminEvents(ctx, bt.cfg.AdminEventsTopic, pending); err != nil {
				bt.logger.Error("cannot answer client batch", "hostname", batch.Hostname, "error", err)
			}
		}
	}
	return nil
}

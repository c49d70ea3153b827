package rules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
)

const DefaultWarningBeforeLogout = 5 // minutes

type Config struct {
	// WarningBeforeLogout is the look-ahead window in minutes.
	WarningBeforeLogout int
}

// Handler evaluates a user's rule sets against activity statistics.
type Handler struct {
	cfg            Config
	contexts       map[string]ContextHandler
	defaultContext string
	logger         *slog.Logger
}

func NewHandler(cfg Config, logger *slog.Logger) *Handler {
	if cfg.WarningBeforeLogout <= 0 {
		cfg.WarningBeforeLogout = DefaultWarningBeforeLogout
	}

	return &Handler{
		cfg:      cfg,
		contexts: make(map[string]ContextHandler),
		logger:   logger.With("component", "rule_handler"),
	}
}

// RegisterContextHandler adds h; the default handler is used for rule sets
// without a context.
func (h *Handler) RegisterContextHandler(handler ContextHandler, isDefault bool) {
	h.contexts[handler.Name()] = handler
	if isDefault {
		h.defaultContext = handler.Name()
	}
	h.logger.Debug("registered context handler", "name", handler.Name(), "default", isDefault)
}

func (h *Handler) ContextHandler(name string) (ContextHandler, bool) {
	c, ok := h.contexts[name]
	return c, ok
}

// ActiveRuleSet returns the highest priority rule set whose context is active
// on date. Ties keep the first rule set seen.
func (h *Handler) ActiveRuleSet(ruleSets []*domain.RuleSet, date time.Time) (*domain.RuleSet, error) {
	var active *domain.RuleSet

	for _, rs := range ruleSets {
		name := rs.Context
		if name == "" {
			name = h.defaultContext
		}

		contextHandler, ok := h.contexts[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidContext, rs.Context)
		}

		isActive, err := contextHandler.IsActive(date, rs.ContextDetails)
		if err != nil {
			return nil, err
		}

		if isActive && (active == nil || rs.Priority > active.Priority) {
			active = rs
		}
	}

	return active, nil
}

func (h *Handler) CheckTimeOfDay(rs *domain.RuleSet, stats *domain.ActivityStats, info *RuleResultInfo) {
	if rs.FreePlay {
		return
	}

	ref := stats.ReferenceTime

	if rs.MinTimeOfDay != nil && ref.Before(rs.MinTimeOfDay.On(ref)) {
		info.Deny(DenyTooEarly)
		info.addReason(RuleTooEarly, "No activity before {hh_mm} hours", map[string]string{"hh_mm": rs.MinTimeOfDay.String()})
	}

	if rs.MaxTimeOfDay != nil {
		maxTime := rs.MaxTimeOfDay.On(ref)

		if ref.After(maxTime) {
			info.Deny(DenyTooLate)
			info.addReason(RuleTooLate, "No activity after {hh_mm} hours", map[string]string{"hh_mm": rs.MaxTimeOfDay.String()})
		}

		left := roundedMinutes(maxTime.Sub(ref))
		info.SetMinutesLeftInSession(left)
		info.SetSessionEndDatetime(maxTime)

		if left <= h.cfg.WarningBeforeLogout {
			info.SetApproachingLogoutRule(RuleTooLate)
		}
	}
}

func (h *Handler) CheckTimePerDay(rs *domain.RuleSet, stats *domain.ActivityStats, info *RuleResultInfo) {
	if rs.FreePlay || rs.MaxTimePerDay == nil {
		return
	}

	maxPerDay := *rs.MaxTimePerDay
	info.SetSessionEndDatetime(stats.ReferenceTime.Add(max(maxPerDay-stats.TodaysActivity, 0)))

	if stats.TodaysActivity >= maxPerDay {
		if maxPerDay == 0 {
			info.Deny(DenyDayBlocked)
			info.addReason(RuleDayBlocked, "Day blocked: no activity permitted", nil)
		} else {
			info.Deny(DenyTimePerDay)
			info.addReason(RuleTimePerDay, "Activity limited to {hh_mm} per day", map[string]string{"hh_mm": FormatDuration(maxPerDay)})
		}
	}

	if maxPerDay > 0 {
		left := roundedMinutes(maxPerDay - stats.TodaysActivity)
		info.SetMinutesLeftInSession(left)
		info.SetMinutesLeftToday(left)

		if left <= h.cfg.WarningBeforeLogout {
			info.SetApproachingLogoutRule(RuleTimePerDay)
		}
	}
}

func (h *Handler) CheckActivityDuration(rs *domain.RuleSet, stats *domain.ActivityStats, info *RuleResultInfo) {
	if rs.FreePlay || rs.MaxActivityDuration == nil || stats.CurrentActivity == nil {
		return
	}

	maxDuration := *rs.MaxActivityDuration
	current := *stats.CurrentActivity
	info.SetSessionEndDatetime(stats.ReferenceTime.Add(max(maxDuration-current, 0)))

	if current > maxDuration {
		info.Deny(DenyActivityDuration)
		info.addReason(RuleActivityDuration, "No activity exceeding {hh_mm}", map[string]string{"hh_mm": FormatDuration(maxDuration)})
		return
	}

	left := roundedMinutes(maxDuration - current)
	info.SetMinutesLeftInSession(left)

	if left <= h.cfg.WarningBeforeLogout {
		info.SetApproachingLogoutRule(RuleActivityDuration)
	}
}

// CheckMinBreak scales the required break by the fraction of the maximum
// activity duration the previous activity used.
func (h *Handler) CheckMinBreak(rs *domain.RuleSet, stats *domain.ActivityStats, info *RuleResultInfo) {
	if rs.FreePlay || rs.MinBreak == nil || rs.MaxActivityDuration == nil {
		return
	}

	minBreak := *rs.MinBreak
	relativeBreak := minBreak

	if stats.PreviousActivity != nil && *rs.MaxActivityDuration > 0 {
		fractionUsed := min(float64(*stats.PreviousActivity)/float64(*rs.MaxActivityDuration), 1.0)
		relativeBreak = time.Duration(fractionUsed * float64(minBreak))
	}

	if stats.SinceLastActivity != nil && *stats.SinceLastActivity < relativeBreak {
		info.Deny(DenyMinBreak)
		info.addReason(RuleMinBreak, "Minimum break time {hh_mm} not reached", map[string]string{"hh_mm": FormatDuration(minBreak)})
		info.BreakMinutesLeft = roundedMinutes(relativeBreak - *stats.SinceLastActivity)
	}
}

type ProcessInput struct {
	Username  string
	Locale    string
	RuleSets  []*domain.RuleSet
	Stats     *domain.ActivityStats
	Override  *domain.RuleOverride
	Extension *domain.TimeExtension
	Reference time.Time
}

// Process selects the active rule set for the reference date, applies the
// override and runs every check. A user without an active rule set gets an
// unrestricted result.
func (h *Handler) Process(_ context.Context, in ProcessInput) (*RuleResultInfo, error) {
	ruleSet, err := h.ActiveRuleSet(in.RuleSets, in.Reference)
	if err != nil {
		return nil, fmt.Errorf("select rule set for %s: %w", in.Username, err)
	}

	stats := &domain.ActivityStats{Username: in.Username}
	if in.Stats != nil {
		copied := *in.Stats
		stats = &copied
	}
	if stats.ReferenceTime.IsZero() {
		stats.ReferenceTime = in.Reference
	}

	info := NewRuleResultInfo(ruleSet, in.Override, in.Username, in.Locale)

	if effective := info.EffectiveRuleSet; effective != nil {
		if effective.FreePlay {
			info.Grant(GrantFreePlay)
		}

		h.CheckTimeOfDay(effective, stats, info)
		h.CheckTimePerDay(effective, stats, info)
		h.CheckActivityDuration(effective, stats, info)
		h.CheckMinBreak(effective, stats, info)
	}

	info.AddTimeExtensionMetaData(in.Reference, in.Extension)
	if info.TimeExtensionActive {
		info.CheckApproachingLogout(h.cfg.WarningBeforeLogout, RuleTimeExtension)
	}

	if info.MinutesLeftToday != nil {
		info.Inform(InfoRemaining)
	}
	if info.LimitedSessionTime() {
		info.Inform(InfoRemainingThisSession)
	}

	if !info.ActivityAllowed() {
		h.logger.Debug("activity prohibited", "user", in.Username, "applying_rules", info.ApplyingRules().String())
	}

	return info, nil
}

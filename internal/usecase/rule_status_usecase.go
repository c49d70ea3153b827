package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/metrics"
	"github.com/LavaJover/little-brother/internal/rules"
	statusdto "github.com/LavaJover/little-brother/internal/usecase/dto/status"
	timeextensiondto "github.com/LavaJover/little-brother/internal/usecase/dto/timeextension"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

// ActivitySource reports per-user activity statistics.
type ActivitySource interface {
	Stats(username string, ref time.Time) *domain.ActivityStats
}

// Evaluation is the rule decision for one user together with its inputs.
type Evaluation struct {
	User      *domain.User
	Stats     *domain.ActivityStats
	Extension *domain.TimeExtension
	Info      *rules.RuleResultInfo
}

type RuleStatusUsecase interface {
	Evaluate(ctx context.Context, username string, ref time.Time) (*Evaluation, error)
	EvaluateAll(ctx context.Context, ref time.Time) ([]*Evaluation, error)
	Status(ctx context.Context, username string, ref time.Time) (*statusdto.UserStatus, error)
	RequestTimeExtension(ctx context.Context, input *timeextensiondto.RequestTimeExtensionInput, ref time.Time) error
	ExtendTime(ctx context.Context, username string, ref time.Time, minutes int) error
}

type DefaultRuleStatusUsecase struct {
	userUsecase      UserUsecase
	overrideUsecase  RuleOverrideUsecase
	extensionUsecase TimeExtensionUsecase
	activity         ActivitySource
	handler          *rules.Handler
	texts            *rules.Texts
	metrics          *metrics.RuleMetrics
	validator        *validation.Validator
	logger           *slog.Logger
}

func NewDefaultRuleStatusUsecase(
	userUsecase UserUsecase,
	overrideUsecase RuleOverrideUsecase,
	extensionUsecase TimeExtensionUsecase,
	activity ActivitySource,
	handler *rules.Handler,
	texts *rules.Texts,
	ruleMetrics *metrics.RuleMetrics,
	validator *validation.Validator,
	logger *slog.Logger,
) *DefaultRuleStatusUsecase {
	return &DefaultRuleStatusUsecase{
		userUsecase:      userUsecase,
		overrideUsecase:  overrideUsecase,
		extensionUsecase: extensionUsecase,
		activity:         activity,
		handler:          handler,
		texts:            texts,
		metrics:          ruleMetrics,
		validator:        validator,
		logger:           logger.With("component", "rule_status_usecase"),
	}
}

func (uc *DefaultRuleStatusUsecase) Evaluate(ctx context.Context, username string, ref time.Time) (*Evaluation, error) {
	user, err := uc.userUsecase.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	extensions, err := uc.extensionUsecase.ActiveTimeExtensions(ctx, ref)
	if err != nil {
		return nil, err
	}

	return uc.evaluate(ctx, user, extensions[username], ref)
}

// EvaluateAll evaluates every active user, ordered by username.
func (uc *DefaultRuleStatusUsecase) EvaluateAll(ctx context.Context, ref time.Time) ([]*Evaluation, error) {
	users, err := uc.userUsecase.Users(ctx)
	if err != nil {
		return nil, err
	}

	extensions, err := uc.extensionUsecase.ActiveTimeExtensions(ctx, ref)
	if err != nil {
		return nil, err
	}

	evaluations := make([]*Evaluation, 0, len(users))
	monitored := 0
	for _, user := range users {
		if !user.Active {
			continue
		}
		monitored++

		evaluation, err := uc.evaluate(ctx, user, extensions[user.Username], ref)
		if err != nil {
			uc.logger.Error("cannot evaluate rules", "user", user.Username, "error", err)
			continue
		}
		evaluations = append(evaluations, evaluation)
	}

	sort.Slice(evaluations, func(i, j int) bool {
		return evaluations[i].User.Username < evaluations[j].User.Username
	})

	uc.metrics.SetUserCounts(len(users), monitored)
	return evaluations, nil
}

func (uc *DefaultRuleStatusUsecase) evaluate(ctx context.Context, user *domain.User, ext *domain.TimeExtension, ref time.Time) (*Evaluation, error) {
	started := time.Now()

	stats := uc.activity.Stats(user.Username, ref)
	info, err := uc.handler.Process(ctx, rules.ProcessInput{
		Username:  user.Username,
		Locale:    user.Locale,
		RuleSets:  user.RuleSets,
		Stats:     stats,
		Override:  uc.overrideUsecase.Override(user.Username, ref),
		Extension: ext,
		Reference: ref,
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordEvaluation(time.Since(started))
	uc.metrics.SetUserActive(user.Username, stats.Active())
	if !info.ActivityAllowed() {
		uc.metrics.RecordDenied(info.Denied().Rules().Names())
	}

	return &Evaluation{User: user, Stats: stats, Extension: ext, Info: info}, nil
}

func (uc *DefaultRuleStatusUsecase) Status(ctx context.Context, username string, ref time.Time) (*statusdto.UserStatus, error) {
	evaluation, err := uc.Evaluate(ctx, username, ref)
	if err != nil {
		return nil, err
	}
	return uc.toStatus(evaluation), nil
}

func (uc *DefaultRuleStatusUsecase) toStatus(e *Evaluation) *statusdto.UserStatus {
	info := e.Info

	status := &statusdto.UserStatus{
		Username:               e.User.Username,
		FullName:               e.User.FullName(),
		Locale:                 e.User.Locale,
		ActivityAllowed:        info.ActivityAllowed(),
		ApplyingRules:          uint16(info.ApplyingRules()),
		ApproachingLogoutRules: uint16(info.ApproachingLogoutRules),
		MinutesLeftInSession:   info.MinutesLeftInSession(),
		MinutesLeftToday:       info.MinutesLeftToday,
		SessionEnd:             info.SessionEndDatetime,
		TodaysActivityMinutes:  int(e.Stats.TodaysActivity / time.Minute),
		TimeExtensionActive:    info.TimeExtensionActive,
		TimeExtensionEnd:       info.TimeExtensionEnd,
		TimeExtensionPeriods:   uc.extensionUsecase.PeriodsFor(e.Extension),
	}

	if info.EffectiveRuleSet != nil {
		status.ContextLabel = info.EffectiveRuleSet.Label()
	}

	for host := range e.Stats.ActiveHosts {
		status.ActiveHosts = append(status.ActiveHosts, host)
	}
	sort.Strings(status.ActiveHosts)

	for _, reason := range info.Reasons {
		status.Reasons = append(status.Reasons, rules.FormatReason(reason))
	}

	switch {
	case !info.ActivityAllowed():
		status.Text = uc.texts.ForRuleSet(info)
	case info.ApproachingLogoutRules != 0:
		status.WarningText = uc.texts.ForApproachingLogout(info)
	}

	return status
}

// RequestTimeExtension is the self-service path: the user proves identity
// with the access code and may only pick an offered period.
func (uc *DefaultRuleStatusUsecase) RequestTimeExtension(ctx context.Context, input *timeextensiondto.RequestTimeExtensionInput, ref time.Time) error {
	if err := uc.validator.Validate(input); err != nil {
		return err
	}

	if _, err := uc.userUsecase.CheckAccessCode(ctx, input.Username, input.AccessCode); err != nil {
		return err
	}

	return uc.ExtendTime(ctx, input.Username, ref, input.Minutes)
}

// ExtendTime applies an offered period to the user's extension. A new
// extension starts when the running session would end.
func (uc *DefaultRuleStatusUsecase) ExtendTime(ctx context.Context, username string, ref time.Time, minutes int) error {
	evaluation, err := uc.Evaluate(ctx, username, ref)
	if err != nil {
		return err
	}

	if !slices.Contains(uc.extensionUsecase.PeriodsFor(evaluation.Extension), minutes) {
		return fmt.Errorf("%w: %d minutes", domain.ErrExtensionNotPermitted, minutes)
	}

	var sessionEnd *time.Time
	if evaluation.Stats.Active() {
		sessionEnd = evaluation.Info.SessionEndDatetime
	}

	return uc.extensionUsecase.ExtendForSession(ctx, username, ref, sessionEnd, minutes)
}

package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/little-brother/internal/config"
	"github.com/LavaJover/little-brother/internal/infrastructure/metrics"
	"github.com/LavaJover/little-brother/internal/rules"
	"github.com/LavaJover/little-brother/internal/usecase"
	"github.com/LavaJover/little-brother/internal/usecase/activity"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

type UseCases struct {
	UserUsecase          *usecase.DefaultUserUsecase
	DeviceUsecase        *usecase.DefaultDeviceUsecase
	User2DeviceUsecase   *usecase.DefaultUser2DeviceUsecase
	RuleSetUsecase       *usecase.DefaultRuleSetUsecase
	RuleOverrideUsecase  *usecase.DefaultRuleOverrideUsecase
	TimeExtensionUsecase *usecase.DefaultTimeExtensionUsecase
	AdminEventUsecase    *usecase.DefaultAdminEventUsecase
	RuleStatusUsecase    *usecase.DefaultRuleStatusUsecase
	EventUsecase         *usecase.DefaultEventUsecase
	RuleImportUsecase    *usecase.DefaultRuleImportUsecase

	Tracker     *activity.Tracker
	RuleHandler *rules.Handler
	Texts       *rules.Texts
}

// NewRuleHandler registers the built-in contexts; "default" applies to rule
// sets without one.
func NewRuleHandler(cfg config.RuleHandler, logger *slog.Logger) *rules.Handler {
	handler := rules.NewHandler(rules.Config{WarningBeforeLogout: cfg.WarningBeforeLogout}, logger)
	handler.RegisterContextHandler(rules.DefaultContextHandler{}, true)
	handler.RegisterContextHandler(rules.WeekdayContextHandler{}, false)
	return handler
}

func InitializeUseCases(cfg *config.LittleBrotherConfig, repos *Repositories, ruleMetrics *metrics.RuleMetrics, logger *slog.Logger) (*UseCases, error) {
	v := validation.New()

	handler := NewRuleHandler(cfg.RuleHandler, logger)
	texts := rules.NewTexts(logger)
	tracker := activity.NewTracker(activity.Config{
		MinActivityDuration: cfg.RuleHandler.MinActivityDuration,
		LookbackDays:        cfg.History.ProcessLookbackInDays,
	}, logger)

	userUsecase, err := usecase.NewDefaultUserUsecase(repos.UserRepo, repos.RuleSetRepo, v, logger)
	if err != nil {
		return nil, fmt.Errorf("user usecase: %w", err)
	}

	ruleSetUsecase := usecase.NewDefaultRuleSetUsecase(repos.RuleSetRepo, handler, v, logger)
	overrideUsecase := usecase.NewDefaultRuleOverrideUsecase(repos.RuleOverrideRepo, v, logger)
	extensionUsecase := usecase.NewDefaultTimeExtensionUsecase(repos.TimeExtensionRepo, cfg.TimeExtensionPeriods, logger)
	adminEventUsecase := usecase.NewDefaultAdminEventUsecase(repos.AdminEventRepo, logger)

	return &UseCases{
		UserUsecase:          userUsecase,
		DeviceUsecase:        usecase.NewDefaultDeviceUsecase(repos.DeviceRepo, v, logger),
		User2DeviceUsecase:   usecase.NewDefaultUser2DeviceUsecase(repos.User2DeviceRepo, repos.UserRepo, repos.DeviceRepo, v, logger),
		RuleSetUsecase:       ruleSetUsecase,
		RuleOverrideUsecase:  overrideUsecase,
		TimeExtensionUsecase: extensionUsecase,
		AdminEventUsecase:    adminEventUsecase,
		RuleStatusUsecase: usecase.NewDefaultRuleStatusUsecase(
			userUsecase, overrideUsecase, extensionUsecase, tracker, handler, texts, ruleMetrics, v, logger,
		),
		EventUsecase:      usecase.NewDefaultEventUsecase(adminEventUsecase, tracker, ruleMetrics, logger),
		RuleImportUsecase: usecase.NewDefaultRuleImportUsecase(userUsecase, ruleSetUsecase, logger),

		Tracker:     tracker,
		RuleHandler: handler,
		Texts:       texts,
	}, nil
}

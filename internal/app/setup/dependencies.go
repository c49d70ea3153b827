package setup

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/LavaJover/little-brother/internal/config"
	"github.com/LavaJover/little-brother/internal/domain"
	eventlogger "github.com/LavaJover/little-brother/internal/infrastructure/logger"
	"github.com/LavaJover/little-brother/internal/infrastructure/kafka"
	"github.com/LavaJover/little-brother/internal/infrastructure/metrics"
	"github.com/LavaJover/little-brother/internal/infrastructure/migrate"
	"github.com/LavaJover/little-brother/internal/infrastructure/notifier"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres"
	"github.com/LavaJover/little-brother/internal/infrastructure/postgres/repository"
)

type Dependencies struct {
	Config     *config.LittleBrotherConfig
	DB         *gorm.DB
	Logger     *slog.Logger
	Metrics    *metrics.RuleMetrics
	Gatherer   prometheus.Gatherer
	Publisher  *kafka.DefaultKafkaPublisher
	Subscriber *kafka.DefaultKafkaSubscriber
	Notifier   notifier.Notifier
	// Schema is nil when migrations are skipped.
	Schema *migrate.Schema

	Repositories *Repositories
}

type Repositories struct {
	UserRepo          domain.UserRepository
	RuleSetRepo       domain.RuleSetRepository
	DeviceRepo        domain.DeviceRepository
	User2DeviceRepo   domain.User2DeviceRepository
	RuleOverrideRepo  domain.RuleOverrideRepository
	TimeExtensionRepo domain.TimeExtensionRepository
	AdminEventRepo    domain.AdminEventRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		UserRepo:          repository.NewDefaultUserRepository(db),
		RuleSetRepo:       repository.NewDefaultRuleSetRepository(db),
		DeviceRepo:        repository.NewDefaultDeviceRepository(db),
		User2DeviceRepo:   repository.NewDefaultUser2DeviceRepository(db),
		RuleOverrideRepo:  repository.NewDefaultRuleOverrideRepository(db),
		TimeExtensionRepo: repository.NewDefaultTimeExtensionRepository(db),
		AdminEventRepo:    eventlogger.NewPGAdminEventLogger(db),
	}
}

// InitializeDependencies opens the database, applies migrations and builds
// the optional bus and notifiers.
func InitializeDependencies(cfg *config.LittleBrotherConfig, logger *slog.Logger) (*Dependencies, error) {
	db, err := postgres.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	var schema *migrate.Schema
	if !cfg.Database.SkipMigrations {
		s, err := migrate.Up(db, cfg.Database.MigrationsPath, logger)
		if err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		schema = &s
	}

	deps := &Dependencies{
		Config:       cfg,
		DB:           db,
		Logger:       logger,
		Metrics:      metrics.NewRuleMetrics(prometheus.DefaultRegisterer),
		Gatherer:     prometheus.DefaultGatherer,
		Notifier:     NewNotifier(cfg.Notifier, logger),
		Schema:       schema,
		Repositories: NewRepositories(db),
	}

	if cfg.KafkaService.Enabled {
		deps.Publisher = kafka.NewDefaultKafkaPublisher(cfg.KafkaService.Brokers, logger)
		deps.Subscriber = kafka.NewDefaultKafkaSubscriber(cfg.KafkaService.Brokers, logger)
	}

	return deps, nil
}

// NewNotifier combines the configured notifiers. A desktop bus that cannot
// be reached is logged and skipped.
func NewNotifier(cfg config.Notifier, logger *slog.Logger) notifier.Notifier {
	var notifiers notifier.MultiNotifier

	if cfg.Desktop {
		desktop, err := notifier.NewDBusNotifier()
		if err != nil {
			logger.Warn("desktop notifications disabled", "error", err)
		} else {
			notifiers = append(notifiers, desktop)
		}
	}

	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notifier.NewWebhookNotifier(cfg.WebhookURL, logger))
	}

	return notifiers
}

func (d *Dependencies) Close() error {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Warn("closing kafka publisher", "error", err)
		}
	}

	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

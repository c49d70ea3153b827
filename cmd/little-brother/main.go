package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/LavaJover/little-brother/internal/app/background"
	"github.com/LavaJover/little-brother/internal/app/setup"
	"github.com/LavaJover/little-brother/internal/config"
	"github.com/LavaJover/little-brother/internal/delivery/grpcapi"
	"github.com/LavaJover/little-brother/internal/delivery/http/handlers"
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/logger"
	"github.com/LavaJover/little-brother/internal/infrastructure/rulefile"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthProbeInterval = 15 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	cfg := config.MustLoad()

	appLogger, closer, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(appLogger)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("little brother stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.LittleBrotherConfig, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("init dependencies: %w", err)
	}
	defer deps.Close()

	uc, err := setup.InitializeUseCases(cfg, deps.Repositories, deps.Metrics, appLogger)
	if err != nil {
		return fmt.Errorf("init usecases: %w", err)
	}

	var runners []background.Runner
	if cfg.RuleFile.Path != "" {
		file, err := rulefile.Load(cfg.RuleFile.Path)
		if err != nil {
			return fmt.Errorf("load rule file: %w", err)
		}
		if _, err := uc.RuleImportUsecase.ImportFile(ctx, file); err != nil {
			return fmt.Errorf("import rule file: %w", err)
		}
		if cfg.RuleFile.Watch {
			runners = append(runners, rulefile.NewWatcher(cfg.RuleFile.Path, uc.RuleImportUsecase, rulefile.DefaultDebounce, appLogger))
		}
	}

	if _, err := uc.RuleOverrideUsecase.LoadRuleOverrides(ctx, time.Now(), cfg.History.ProcessLookbackInDays); err != nil {
		return fmt.Errorf("load rule overrides: %w", err)
	}

	hostname := cfg.Master.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	if err := uc.AdminEventUsecase.LogAdminEvent(ctx, &domain.AdminEvent{
		Hostname:  hostname,
		EventType: domain.EventStartMaster,
		EventTime: time.Now(),
	}); err != nil {
		appLogger.Warn("failed to log master start", "error", err)
	}

	connector := handlers.NewMasterConnector(cfg.Master.URL, cfg.Master.AccessToken, appLogger)
	apiHandler := handlers.NewAPIHandler(connector, uc.EventUsecase, uc.RuleStatusUsecase, deps.Metrics, deps.Gatherer, appLogger)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           apiHandler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sqlDB, err := deps.DB.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	health := grpcapi.NewHealthHandler(sqlDB, healthProbeInterval, appLogger)
	grpcServer := grpc.NewServer()
	health.Register(grpcServer)

	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	var bus background.Bus
	if cfg.KafkaService.Enabled {
		bus = background.Bus{
			Publisher:  deps.Publisher,
			Subscriber: deps.Subscriber,
			Checker:    connector,
		}
	}

	tasks := background.NewBackgroundTasks(background.Config{
		CheckInterval:           cfg.RuleHandler.CheckInterval,
		ProcessLookbackDays:     cfg.History.ProcessLookbackInDays,
		AdminEventHistoryDays:   cfg.History.AdminEventHistoryDays,
		RuleOverrideHistoryDays: cfg.History.RuleOverrideHistoryDays,
		ClientEventsTopic:       cfg.KafkaService.ClientEventsTopic,
		AdminEventsTopic:        cfg.KafkaService.AdminEventsTopic,
		GroupID:                 cfg.KafkaService.GroupID,
	}, background.Usecases{
		Status:      uc.RuleStatusUsecase,
		Events:      uc.EventUsecase,
		Overrides:   uc.RuleOverrideUsecase,
		Extensions:  uc.TimeExtensionUsecase,
		AdminEvents: uc.AdminEventUsecase,
		Devices:     uc.DeviceUsecase,
	}, bus, uc.Tracker, uc.Texts, deps.Notifier, deps.Metrics, appLogger, runners...)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		appLogger.Info("grpc server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error { return health.Run(ctx) })
	g.Go(func() error { return tasks.StartAll(ctx) })

	g.Go(func() error {
		<-ctx.Done()
		appLogger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

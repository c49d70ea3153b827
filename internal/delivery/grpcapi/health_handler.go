package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	ServiceName = "little_brother.Master"

	DefaultProbeInterval = 15 * time.Second
	probeTimeout         = 3 * time.Second
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports SERVING while the database answers pings.
type HealthHandler struct {
	server   *health.Server
	db       Pinger
	interval time.Duration
	logger   *slog.Logger
}

func NewHealthHandler(db Pinger, interval time.Duration, logger *slog.Logger) *HealthHandler {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	return &HealthHandler{
		server:   health.NewServer(),
		db:       db,
		interval: interval,
		logger:   logger.With("component", "health_handler"),
	}
}

func (h *HealthHandler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Probe pings the database once and publishes the result for the overall
// server and for ServiceName.
func (h *HealthHandler) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("database ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Run probes until ctx is done and then marks every service NOT_SERVING.
func (h *HealthHandler) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return nil
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

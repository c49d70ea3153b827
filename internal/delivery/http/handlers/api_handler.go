package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LavaJover/little-brother/internal/delivery/http/dto/api"
	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/metrics"
	"github.com/LavaJover/little-brother/internal/usecase"
	timeextensiondto "github.com/LavaJover/little-brother/internal/usecase/dto/timeextension"
	"github.com/LavaJover/little-brother/internal/usecase/validation"
)

const maxBatchBytes = 1 << 20

// APIHandler is the master side of the client protocol.
type APIHandler struct {
	connector *MasterConnector
	events    usecase.EventUsecase
	status    usecase.RuleStatusUsecase
	metrics   *metrics.RuleMetrics
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	now       func() time.Time
}

func NewAPIHandler(
	connector *MasterConnector,
	events usecase.EventUsecase,
	status usecase.RuleStatusUsecase,
	ruleMetrics *metrics.RuleMetrics,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		connector: connector,
		events:    events,
		status:    status,
		metrics:   ruleMetrics,
		gatherer:  gatherer,
		logger:    logger.With("component", "api_handler"),
		now:       time.Now,
	}
}

func (h *APIHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST "+api.RouteEvents, h.instrument(api.RouteEvents, h.handleEvents))
	mux.Handle("GET "+api.RouteStatus, h.instrument(api.RouteStatus, h.handleStatus))
	mux.Handle("POST "+api.RouteRequestTimeExtension, h.instrument(api.RouteRequestTimeExtension, h.handleRequestTimeExtension))
	mux.Handle("GET "+api.RouteMetrics, promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	return mux
}

func (h *APIHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBatchBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	batch, err := h.connector.ReceiveEvents(payload)
	switch {
	case errors.Is(err, domain.ErrInvalidAccessToken):
		writeError(w, http.StatusUnauthorized, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	}

	pending, err := h.events.ReceiveBatch(r.Context(), batch)
	if err != nil {
		h.logger.Error("cannot process event batch", "hostname", batch.Hostname, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if pending == nil {
		pending = []*domain.AdminEvent{}
	}
	writeJSON(w, http.StatusOK, api.EventsResponse{Events: pending})
}

func (h *APIHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get(api.ParamUsername)
	if username == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing username"))
		return
	}

	status, err := h.status.Status(r.Context(), username, h.now())
	if err != nil {
		writeError(w, statusCodeOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *APIHandler) handleRequestTimeExtension(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	minutes, err := strconv.Atoi(query.Get(api.ParamExtensionLength))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid extension length"))
		return
	}

	err = h.status.RequestTimeExtension(r.Context(), &timeextensiondto.RequestTimeExtensionInput{
		Username:   query.Get(api.ParamUsername),
		AccessCode: query.Get(api.ParamSecret),
		Minutes:    minutes,
	}, h.now())
	if err != nil {
		writeError(w, statusCodeOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func statusCodeOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAccessCode), errors.Is(err, domain.ErrInvalidAccessToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrExtensionNotPermitted):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, validation.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *APIHandler) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r.WithContext(domain.WithSessionContext(r.Context(), domain.NewSessionContext())))

		h.metrics.RecordHTTPRequest(route, strconv.Itoa(rec.status), time.Since(started))
		h.logger.Debug("request served", "route", route, "status", rec.status, "duration", time.Since(started))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, api.ErrorResponse{Success: false, Error: err.Error()})
}

package httphandler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

// maxInvokeBody caps the Functions host invocation payload.
const maxInvokeBody = 1 << 20

// Checker is the subset of the check service the HTTP adapter drives.
type Checker interface {
	Run(ctx context.Context, trigger model.Trigger) model.RunReport
	Preview(ctx context.Context) ([]model.ExpiringApplication, int, error)
}

// Handler is the HTTP driving adapter. It serves the Azure Functions
// custom-handler invocation for the timer function plus a small JSON API.
type Handler struct {
	checker Checker
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(checker Checker, logger *slog.Logger) *Handler {
	return &Handler{
		checker: checker,
		logger:  logger,
		now:     time.Now,
	}
}

// NewRouter creates an http.Handler with all routes registered and wrapped
// with request ID, logging, recovery and metrics middleware. functionName is
// the Functions function whose invocations are posted to /{functionName}.
// When reg is nil the /metrics endpoint and HTTP metrics are disabled.
func NewRouter(h *Handler, functionName string, reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(loggingMiddleware(logger))
	// Recovery inside logging so the 500 it writes is logged.
	r.Use(recoveryMiddleware(logger))
	if reg != nil {
		r.Use(newHTTPMetrics(reg).middleware)
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Post("/"+functionName, h.Invoke)
	r.Get("/api/v1/health", h.Health)
	r.Get("/api/v1/expiring", h.ListExpiring)

	return r
}

// Invoke handles a timer invocation forwarded by the Functions host. The run
// executes synchronously; a failed directory fetch answers 500 so the host
// records the invocation as failed.
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInvokeBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid invocation payload")
		return
	}

	trigger := model.Trigger{Source: "http", IsPastDue: req.timerPastDue()}
	report := h.checker.Run(r.Context(), trigger)

	resp := InvokeResponse{
		Outputs: map[string]any{},
		Logs:    reportLogs(report),
	}

	if !report.OK() {
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// ListExpiring returns the credentials that would be announced today without
// sending anything.
func (h *Handler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	expiring, apps, err := h.checker.Preview(r.Context())
	if err != nil {
		h.logger.Error("failed to preview expiring credentials", "error", err)
		writeError(w, http.StatusBadGateway, "directory query failed")
		return
	}

	resp := ExpiringListResponse{
		Applications: apps,
		Credentials:  make([]ExpiringResponse, 0, len(expiring)),
	}
	for _, exp := range expiring {
		resp.Credentials = append(resp.Credentials, toExpiringResponse(exp))
	}

	writeJSON(w, http.StatusOK, resp)
}

// reportLogs renders the run summary as host log lines.
func reportLogs(report model.RunReport) []string {
	var logs []string
	if report.Trigger.IsPastDue {
		logs = append(logs, "Timer function is running late!")
	}
	if !report.OK() {
		return append(logs, fmt.Sprintf("fetching applications failed: %v", report.Err))
	}

	return append(logs, fmt.Sprintf(
		"scanned %d applications, %d credentials due, %d notifications delivered, %d failed",
		report.Applications, len(report.Expiring), report.Delivered, report.Failed,
	))
}

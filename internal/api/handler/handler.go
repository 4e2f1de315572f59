// Package handler holds the HTTP handlers of the generation and dashboard
// API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-bi-stack/internal/dashboard"
	"go-bi-stack/internal/generator"
	"go-bi-stack/internal/metrics"
	"go-bi-stack/internal/model"
	"go-bi-stack/internal/pipeline"
)

// JobStore records generation history. *store.DB satisfies it.
type JobStore interface {
	SaveJob(ctx context.Context, job model.GenerationJob) error
	CompleteJob(ctx context.Context, jobID, filename string, records int, seed uint64) error
	SaveJobError(ctx context.Context, jobID string, jobErr error) error
	ListJobs(ctx context.Context, limit int) ([]model.GenerationJob, error)
	GetJob(ctx context.Context, jobID string) (model.GenerationJob, error)
	JobErrors(ctx context.Context, jobID string) ([]string, error)
}

// Deps wires a Handler.
type Deps struct {
	Factory          *generator.Factory
	Exports          *pipeline.ExportManager
	Jobs             JobStore
	Dashboard        *dashboard.Builder
	Metrics          *metrics.Metrics
	Logger           *slog.Logger
	MaxExportRecords int
}

// Handler serves the API. It holds no request state.
type Handler struct {
	factory   *generator.Factory
	exports   *pipeline.ExportManager
	jobs      JobStore
	dashboard *dashboard.Builder
	metrics   *metrics.Metrics
	logger    *slog.Logger
	maxExport int
}

// New creates a Handler from d.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}
	maxExport := d.MaxExportRecords
	if maxExport <= 0 {
		maxExport = 10000
	}
	return &Handler{
		factory:   d.Factory,
		exports:   d.Exports,
		jobs:      d.Jobs,
		dashboard: d.Dashboard,
		metrics:   m,
		logger:    logger,
		maxExport: maxExport,
	}
}

// Metrics returns the collector the handler reports to.
func (h *Handler) Metrics() *metrics.Metrics { return h.metrics }

// ------------------- Helpers -------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case model.IsValidation(err), errors.Is(err, model.ErrEmptyDataset):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDataLoad):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail logs server-side failures and writes the error body.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}

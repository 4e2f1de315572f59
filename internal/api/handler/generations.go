package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go-bi-stack/internal/model"
)

const defaultHistoryLimit = 50

// JobDetail is one history entry with its recorded errors.
type JobDetail struct {
	model.GenerationJob
	Errors []string `json:"errors"`
}

// ListGenerations returns the generation history
// @Summary List generation jobs
// @Description Most recent generation jobs first
// @Tags generation
// @Produce json
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} model.GenerationJob "Generation history"
// @Failure 400 {object} model.ErrorResponse "Invalid limit"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /api/v1/generations [get]
func (h *Handler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	jobs, err := h.jobs.ListJobs(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetGeneration returns one generation job
// @Summary Get generation job
// @Description Retrieve one generation job and its errors
// @Tags generation
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} handler.JobDetail "Job details"
// @Failure 400 {object} model.ErrorResponse "Invalid job ID"
// @Failure 404 {object} model.ErrorResponse "Job not found"
// @Router /api/v1/generations/{id} [get]
func (h *Handler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	// Extract job ID from URL path
	jobID := strings.TrimPrefix(r.URL.Path, "/api/v1/generations/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	job, err := h.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errs, err := h.jobs.JobErrors(r.Context(), jobID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, JobDetail{GenerationJob: job, Errors: errs})
}

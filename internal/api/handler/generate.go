package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-bi-stack/internal/generator"
	"go-bi-stack/internal/model"
	"go-bi-stack/internal/pipeline"
	"go-bi-stack/internal/store"

	"github.com/google/uuid"
)

// Generate produces a synthetic dataset and stores it for download
// @Summary Generate a synthetic dataset
// @Description Generate records for one source system within a date window and write them in the requested format
// @Tags generation
// @Accept json
// @Produce json
// @Param request body model.GenerateRequestBody true "Generation request"
// @Success 200 {object} model.GenerateResponse "File generated"
// @Failure 400 {object} model.ErrorResponse "Invalid request"
// @Failure 500 {object} model.ErrorResponse "Generation failed"
// @Router /generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var body model.GenerateRequestBody
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	// 1. Validate payload
	req, err := body.ToRequest()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Format == "" {
		req.Format = string(pipeline.FormatCSV)
	}
	format, err := pipeline.ParseFormat(req.Format)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(h.factory.MaxRecords()); err != nil {
		h.fail(w, r, err)
		return
	}

	// 2. Record the job
	ctx := r.Context()
	jobID := uuid.New().String()
	job := model.GenerationJob{
		ID:         jobID,
		System:     req.Kind.System(),
		Kind:       string(req.Kind),
		StartDate:  req.Start.Format(model.DateLayout),
		EndDate:    req.End.Format(model.DateLayout),
		MinRecords: req.MinRecords,
		MaxRecords: req.MaxRecords,
		Format:     string(format),
		Seed:       req.Seed,
		Status:     store.StatusPending,
	}
	if err := h.jobs.SaveJob(ctx, job); err != nil {
		h.fail(w, r, err)
		return
	}

	// 3. Generate and export
	start := time.Now()
	batch, err := h.factory.Generate(ctx, req, generator.Options{})
	if err == nil {
		var res *model.ExportResult
		res, err = h.exports.Export(ctx, req.Kind.System(), batch.Records, format, jobID)
		if err == nil {
			h.metrics.ObserveGeneration(string(req.Kind), store.StatusCompleted, batch.Len(), time.Since(start))
			h.metrics.ObserveExport(string(format), res.SizeBytes)
			if err := h.jobs.CompleteJob(ctx, jobID, res.Filename, res.RecordCount, batch.Seed); err != nil {
				h.logger.Warn("failed to record job completion", "job_id", jobID, "error", err)
			}
			h.logger.Info("dataset generated",
				"job_id", jobID,
				"kind", req.Kind,
				"records", res.RecordCount,
				"seed", batch.Seed,
				"file", res.Filename,
				"duration", time.Since(start))

			// 4. Return response
			writeJSON(w, http.StatusOK, model.GenerateResponse{
				Success:          true,
				Filename:         res.Filename,
				RecordsGenerated: res.RecordCount,
				DownloadURL:      res.DownloadURL,
			})
			return
		}
	}

	h.metrics.ObserveGeneration(string(req.Kind), store.StatusFailed, 0, time.Since(start))
	if saveErr := h.jobs.SaveJobError(ctx, jobID, err); saveErr != nil {
		h.logger.Warn("failed to record job error", "job_id", jobID, "error", errors.Join(err, saveErr))
	}
	h.fail(w, r, err)
}

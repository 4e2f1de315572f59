package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-bi-stack/internal/dashboard"
	"go-bi-stack/internal/model"
	"go-bi-stack/internal/pipeline"
)

// parseFilters reads from, to, industry and type from the query string.
func parseFilters(q url.Values) (dashboard.Filters, error) {
	var f dashboard.Filters
	for _, p := range []struct {
		key string
		dst *time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		s := strings.TrimSpace(q.Get(p.key))
		if s == "" {
			continue
		}
		t, err := time.Parse(model.DateLayout, s)
		if err != nil {
			return f, fmt.Errorf("%w: %s %q must be YYYY-MM-DD", model.ErrInvalidRange, p.key, s)
		}
		*p.dst = t
	}
	f.Industry = strings.TrimSpace(q.Get("industry"))
	f.AccountType = strings.TrimSpace(q.Get("type"))
	return f, nil
}

// Dashboard renders the dashboard model
// @Summary Dashboard render model
// @Description KPIs, chart definitions and explorer tables for the selected filters
// @Tags dashboard
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param industry query string false "Account industry or All"
// @Param type query string false "Account type or All"
// @Success 200 {object} dashboard.Dashboard "Dashboard"
// @Failure 400 {object} model.ErrorResponse "Invalid filters"
// @Failure 503 {object} model.ErrorResponse "Datasets unavailable"
// @Router /api/v1/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.dashboard.Build(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ExportDashboard exports one filtered dataset
// @Summary Export a filtered dataset
// @Description Write the filtered view of one dashboard dataset to a file and return its download URL
// @Tags dashboard
// @Produce json
// @Param dataset query string true "accounts, opportunities, marketing or transactions"
// @Param format query string false "csv, json or parquet" default(csv)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param industry query string false "Account industry or All"
// @Param type query string false "Account type or All"
// @Success 200 {object} model.ExportResult "Export written"
// @Failure 400 {object} model.ErrorResponse "Invalid request"
// @Failure 503 {object} model.ErrorResponse "Datasets unavailable"
// @Router /api/v1/dashboard/export [get]
func (h *Handler) ExportDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("dataset"))
	switch name {
	case dashboard.DatasetAccounts, dashboard.DatasetOpportunities,
		dashboard.DatasetMarketing, dashboard.DatasetTransactions:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown dataset %q", name))
		return
	}
	formatName := q.Get("format")
	if formatName == "" {
		formatName = string(pipeline.FormatCSV)
	}
	format, err := pipeline.ParseFormat(formatName)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	f, err := parseFilters(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	views, _, err := h.dashboard.Filter(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := views.View(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.exports.Export(r.Context(), name, pipeline.Head(view, h.maxExport).Records(), format, "")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.metrics.ObserveExport(string(format), res.SizeBytes)
	writeJSON(w, http.StatusOK, res)
}

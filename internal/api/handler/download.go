package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"go-bi-stack/internal/pipeline"
	"go-bi-stack/pkg/utils"
)

// Download streams a generated file
// @Summary Download a generated file
// @Description Stream a previously generated file as an attachment
// @Tags generation
// @Produce octet-stream
// @Param filename path string true "File name"
// @Success 200 {file} file "File contents"
// @Failure 400 {object} model.ErrorResponse "Invalid file name"
// @Failure 404 {object} model.ErrorResponse "File not found"
// @Router /download/{filename} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/download/")
	name := utils.SanitizeFilename(raw)
	if name == "" || name != raw {
		writeError(w, http.StatusBadRequest, "Invalid file name")
		return
	}

	info, body, err := h.exports.Store().Get(r.Context(), name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
		if f, err := pipeline.ParseFormat(h.exports.Names().GetFileType(name)); err == nil {
			contentType = f.ContentType()
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if info.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprint(info.Size))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("download interrupted", "file", name, "error", err)
	}
}

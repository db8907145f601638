package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/noteforge/noteforge/pipeline"
)

type UploadHandler struct {
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
	maxBytes     int64
}

func NewUploadHandler(orchestrator *pipeline.Orchestrator, logger *slog.Logger, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 40 << 20
	}
	return &UploadHandler{
		orchestrator: orchestrator,
		logger:       logger,
		maxBytes:     maxBytes,
	}
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Received file upload request")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSONError(w, "Failed to parse multipart form (file too large?)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		writeJSONError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	h.logger.Debug("Starting document processing",
		slog.String("filename", header.Filename),
		slog.String("content_type", header.Header.Get("Content-Type")),
		slog.Int64("size", header.Size))

	start := time.Now()
	result, err := h.orchestrator.SummarizeUpload(r.Context(), buf.Bytes(), header.Filename)
	if err != nil {
		h.logger.Error("Upload processing failed",
			slog.String("filename", header.Filename),
			slog.String("extension", filepath.Ext(header.Filename)),
			slog.String("error", err.Error()))
		writeMappedError(w, err)
		return
	}

	h.logger.Info("Upload processed",
		slog.String("filename", header.Filename),
		slog.Float64("duration_seconds", time.Since(start).Seconds()))

	writeJSON(w, http.StatusOK, result)
}

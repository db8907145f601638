package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noteforge/noteforge/extract"
	"github.com/noteforge/noteforge/llm_service"
	"github.com/noteforge/noteforge/pipeline"
	"github.com/noteforge/noteforge/quiz"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// writeMappedError translates the pipeline error taxonomy onto HTTP
// statuses. Provider credentials never reach the response body.
func writeMappedError(w http.ResponseWriter, err error) {
	var stageErr *pipeline.StageError
	details := err.Error()
	if errors.As(err, &stageErr) {
		details = "stage: " + string(stageErr.Stage)
	}

	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unsupported file type", Details: details})
	case errors.Is(err, extract.ErrCorruptDocument):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Could not read the document. Try re-saving or converting the file and upload again.",
			Details: details,
		})
	case errors.Is(err, pipeline.ErrEmptyDocument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Document contains no extractable text", Details: details})
	case errors.Is(err, quiz.ErrUnparsableQuiz):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Failed to parse quiz from model output", Details: details})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "Processing timed out", Details: details})
	case isLLMError(err):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Language model request failed", Details: details})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error", Details: details})
	}
}

func isLLMError(err error) bool {
	var apiErr *llm_service.APIError
	return errors.As(err, &apiErr)
}

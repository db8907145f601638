package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/noteforge/noteforge/pipeline"
)

type AskHandler struct {
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
}

func NewAskHandler(orchestrator *pipeline.Orchestrator, logger *slog.Logger) *AskHandler {
	return &AskHandler{orchestrator: orchestrator, logger: logger}
}

type askRequest struct {
	Text     string `json:"text"`
	Question string `json:"question"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

// Ask answers a free-form question over previously extracted document
// text.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		writeJSONError(w, "Text is required and must be a string", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		writeJSONError(w, "Question is required and must be a string", http.StatusBadRequest)
		return
	}

	answer, err := h.orchestrator.Answer(r.Context(), req.Text, req.Question)
	if err != nil {
		h.logger.Error("Ask failed", slog.String("error", err.Error()))
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
}

// Quiz generates a multiple-choice quiz over the supplied text. The
// response carries the raw model output in `answer` (the caller runs
// its own repair pass), but the server already validates that the text
// repairs into at least one question.
func (h *AskHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		writeJSONError(w, "Text is required and must be a string", http.StatusBadRequest)
		return
	}

	raw, questions, err := h.orchestrator.GenerateQuiz(r.Context(), req.Text)
	if err != nil {
		h.logger.Error("Quiz generation failed", slog.String("error", err.Error()))
		writeMappedError(w, err)
		return
	}

	h.logger.Info("Quiz generated", slog.Int("questions", len(questions)))
	writeJSON(w, http.StatusOK, answerResponse{Answer: raw})
}

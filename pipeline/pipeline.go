// Package pipeline sequences extraction, prompting, LLM invocation and
// PDF rendering into one request lifecycle. Stages of a single request
// never run concurrently; independent requests are fully independent.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/noteforge/noteforge/extract"
	"github.com/noteforge/noteforge/flowchart"
	"github.com/noteforge/noteforge/llm_service"
	"github.com/noteforge/noteforge/prompt"
	"github.com/noteforge/noteforge/quiz"
	"github.com/noteforge/noteforge/render"
)

// ErrEmptyDocument rejects uploads whose extraction produced no text at
// all: the prompt builder tolerates empty input, but a contextless
// summary helps nobody, so the orchestrator refuses upstream.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// Result is what the summarize path hands back to the HTTP layer.
type Result struct {
	DownloadURL string           `json:"downloadUrl"`
	TextContent string           `json:"textContent"`
	Flowchart   *flowchart.Graph `json:"flowchartData,omitempty"`
}

type Orchestrator struct {
	extractor  *extract.DocumentExtractor
	llm        llm_service.Service
	renderer   *render.Renderer
	flowcharts *flowchart.Generator
	logger     *slog.Logger
	uploadDir  string
	llmOpts    llm_service.Options
	timeout    time.Duration
}

func New(llm llm_service.Service, logger *slog.Logger, uploadDir string, llmOpts llm_service.Options, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Orchestrator{
		extractor:  extract.NewDocumentExtractor(logger),
		llm:        llm,
		renderer:   render.NewRenderer(),
		flowcharts: flowchart.NewGenerator(llm, logger),
		logger:     logger,
		uploadDir:  uploadDir,
		timeout:    timeout,
		llmOpts:    llmOpts,
	}
}

// SummarizeUpload runs the full summarize path for one uploaded file:
// store the original, extract text, summarize via the LLM, render the
// notes PDF, and attach a best-effort flowchart.
func (o *Orchestrator) SummarizeUpload(ctx context.Context, data []byte, filename string) (*Result, error) {
	format, err := extract.FormatFromFilename(filename)
	if err != nil {
		return nil, failStage(StageReceived, err)
	}

	storedName, err := o.storeOriginal(data, filename)
	if err != nil {
		return nil, failStage(StageReceived, err)
	}

	o.logger.Info("Processing upload",
		slog.String("stored_name", storedName),
		slog.String("format", string(format)),
		slog.Int("size", len(data)))

	var doc *extract.Document
	err = o.runBounded(ctx, func() error {
		var exErr error
		doc, exErr = o.extractor.Extract(data, format)
		return exErr
	})
	if err != nil {
		return nil, failStage(StageExtracting, err)
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, failStage(StageExtracting, ErrEmptyDocument)
	}

	base := strings.TrimSuffix(storedName, filepath.Ext(storedName))
	return o.summarize(ctx, doc.Text, base)
}

// SummarizeText runs the summarize path over text that was extracted
// elsewhere (the scrape collaborator feeds this entry point).
func (o *Orchestrator) SummarizeText(ctx context.Context, text, nameHint string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, failStage(StageReceived, ErrEmptyDocument)
	}
	base := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(nameHint))
	return o.summarize(ctx, text, base)
}

func (o *Orchestrator) summarize(ctx context.Context, text, base string) (*Result, error) {
	messages := prompt.Summarize(text)

	resp, err := o.llm.Call(ctx, messages, &o.llmOpts)
	if err != nil {
		return nil, failStage(StageAwaitingLLM, err)
	}
	summary := resp.Content
	if strings.TrimSpace(summary) == "" {
		summary = "No summary available."
	}

	notesName := fmt.Sprintf("notes_%s.pdf", base)
	notesPath := filepath.Join(o.uploadDir, notesName)

	err = o.runBounded(ctx, func() error {
		return o.renderer.WriteFile(notesPath, "AI Summarized Notes", summary)
	})
	if err != nil {
		return nil, failStage(StageRendering, err)
	}

	o.logger.Info("Notes PDF generated",
		slog.String("path", notesPath),
		slog.Int("summary_length", len(summary)))

	return &Result{
		DownloadURL: "/uploads/" + notesName,
		TextContent: text,
		Flowchart:   o.flowcharts.Generate(ctx, text),
	}, nil
}

// Answer runs the free-form Q&A path over previously extracted text.
func (o *Orchestrator) Answer(ctx context.Context, text, question string) (string, error) {
	resp, err := o.llm.Call(ctx, prompt.Answer(text, question), &o.llmOpts)
	if err != nil {
		return "", failStage(StageAwaitingLLM, err)
	}
	return resp.Content, nil
}

// GenerateQuiz runs the quiz path: prompt, LLM call, then the repair
// layer. It returns both the raw LLM text (the API contract exposes
// it) and the validated question set.
func (o *Orchestrator) GenerateQuiz(ctx context.Context, text string) (string, []quiz.Question, error) {
	resp, err := o.llm.Call(ctx, prompt.Quiz(text), &o.llmOpts)
	if err != nil {
		return "", nil, failStage(StageAwaitingLLM, err)
	}

	questions, err := quiz.Parse(resp.Content)
	if err != nil {
		return resp.Content, nil, failStage(StageRepairing, err)
	}

	for _, q := range questions {
		if !answerInOptions(q) {
			o.logger.Debug("Quiz answer not among options",
				slog.String("question", q.Question))
		}
	}

	return resp.Content, questions, nil
}

// storeOriginal keeps the uploaded bytes on disk under a timestamped
// name. Names are unique per request, so the directory needs no
// locking.
func (o *Orchestrator) storeOriginal(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(o.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(filename))
	if err := os.WriteFile(filepath.Join(o.uploadDir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return name, nil
}

// runBounded executes a CPU-bound step with the orchestrator timeout so
// a pathological document fails the request instead of hanging it.
func (o *Orchestrator) runBounded(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func answerInOptions(q quiz.Question) bool {
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		name = "document"
	}
	return name
}

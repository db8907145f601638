package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/noteforge/noteforge/extract"
	"github.com/noteforge/noteforge/pipeline"
)

// ScrapeHandler fetches a URL, extracts its text, and feeds it into the
// same summarize path uploads use. Google Docs links are fetched via
// the plain-text export endpoint; everything else is dispatched on the
// response content type.
type ScrapeHandler struct {
	orchestrator *pipeline.Orchestrator
	extractor    *extract.DocumentExtractor
	logger       *slog.Logger
	httpClient   *http.Client
}

func NewScrapeHandler(orchestrator *pipeline.Orchestrator, logger *slog.Logger) *ScrapeHandler {
	return &ScrapeHandler{
		orchestrator: orchestrator,
		extractor:    extract.NewDocumentExtractor(logger),
		logger:       logger,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type scrapeRequest struct {
	URL string `json:"url"`
}

var driveIDRe = regexp.MustCompile(`[-\w]{25,}`)

func (h *ScrapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	target, err := url.Parse(req.URL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		writeJSONError(w, "A valid http(s) url is required", http.StatusBadRequest)
		return
	}

	h.logger.Info("Scrape request", slog.String("url", target.String()))

	text, err := h.fetchText(r, target)
	if err != nil {
		h.logger.Error("Scrape fetch failed",
			slog.String("url", target.String()),
			slog.String("error", err.Error()))
		writeJSONError(w, "Failed to fetch or read the linked document", http.StatusBadRequest)
		return
	}

	result, err := h.orchestrator.SummarizeText(r.Context(), text, nameHint(target))
	if err != nil {
		h.logger.Error("Scrape processing failed", slog.String("error", err.Error()))
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ScrapeHandler) fetchText(r *http.Request, target *url.URL) (string, error) {
	fetchURL := target.String()
	if isGoogleDoc(target) {
		if id := driveIDRe.FindString(target.Path + target.RawQuery); id != "" {
			fetchURL = fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=txt", id)
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), "GET", fetchURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, fetchURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 40<<20))
	if err != nil {
		return "", err
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/pdf"):
		return h.extractor.ExtractTextFromPDF(body)
	case strings.Contains(contentType, "wordprocessingml"):
		return h.extractor.ExtractTextFromWord(body)
	case strings.Contains(contentType, "text/html"):
		return htmlToText(body)
	default:
		return h.extractor.ExtractTextFromPlain(body)
	}
}

// htmlToText strips markup, scripts, and styles and returns the page's
// visible text.
func htmlToText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()

	var parts []string
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})

	text := strings.Join(parts, "\n")
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n"), nil
}

func isGoogleDoc(target *url.URL) bool {
	host := target.Hostname()
	return host == "docs.google.com" || host == "drive.google.com"
}

func nameHint(target *url.URL) string {
	host := strings.ReplaceAll(target.Hostname(), ".", "_")
	if host == "" {
		return "scrape"
	}
	return host
}

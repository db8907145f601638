package extract

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv/v2"
	"github.com/ledongthuc/pdf"
)

// Format identifies the source encoding of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCorruptDocument   = errors.New("corrupt or unreadable document")
)

// Document is the plain-text result of one extraction. It is built once
// per upload and never mutated afterwards.
type Document struct {
	Text       string
	Format     Format
	ByteLength int
}

type DocumentExtractor struct {
	logger *slog.Logger
}

func NewDocumentExtractor(logger *slog.Logger) *DocumentExtractor {
	return &DocumentExtractor{
		logger: logger,
	}
}

// FormatFromFilename maps a file extension onto a Format.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx", ".doc":
		return FormatDOCX, nil
	case ".txt":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Extract converts raw document bytes into plain text.
func (e *DocumentExtractor) Extract(data []byte, format Format) (*Document, error) {
	var text string
	var err error

	switch format {
	case FormatPDF:
		text, err = e.ExtractTextFromPDF(data)
	case FormatDOCX:
		text, err = e.ExtractTextFromWord(data)
	case FormatTXT:
		text, err = e.ExtractTextFromPlain(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, err
	}

	return &Document{
		Text:       text,
		Format:     format,
		ByteLength: len(data),
	}, nil
}

// ExtractTextFromPDF walks every page and concatenates the extracted
// text, pages separated by a blank line. Pages with no extractable text
// yield an empty string rather than an error. If the primary parser
// cannot open the file at all, a second independent parser is tried
// before giving up, since real-world PDFs vary widely in internal
// structure.
func (e *DocumentExtractor) ExtractTextFromPDF(data []byte) (string, error) {
	text, primaryErr := e.extractPDFPrimary(data)
	if primaryErr == nil {
		return text, nil
	}

	e.logger.Warn("Primary PDF parser failed, trying fallback",
		slog.String("error", primaryErr.Error()),
		slog.Int("data_size", len(data)))

	text, fallbackErr := e.extractPDFFallback(data)
	if fallbackErr == nil {
		return text, nil
	}

	e.logger.Error("Both PDF parsers failed",
		slog.String("primary_error", primaryErr.Error()),
		slog.String("fallback_error", fallbackErr.Error()))

	return "", fmt.Errorf("%w: primary: %v; fallback: %v", ErrCorruptDocument, primaryErr, fallbackErr)
}

func (e *DocumentExtractor) extractPDFPrimary(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %v", err)
	}

	totalPage := reader.NumPage()
	e.logger.Debug("Starting PDF text extraction",
		slog.Int("total_pages", totalPage))

	pages := make([]string, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			e.logger.Warn("Null page encountered",
				slog.Int("page_number", pageIndex))
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page is not fatal for the document.
			e.logger.Warn("Failed to extract text from page",
				slog.Int("page_number", pageIndex),
				slog.String("error", err.Error()))
			pages = append(pages, "")
			continue
		}

		pages = append(pages, normalizeRuns(text))
	}

	fullText := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if len(fullText) == 0 {
		return "", fmt.Errorf("no text content extracted from PDF")
	}

	e.logger.Info("Successfully extracted text from PDF",
		slog.Int("total_pages", totalPage),
		slog.Int("total_text_length", len(fullText)))

	return fullText, nil
}

func (e *DocumentExtractor) extractPDFFallback(data []byte) (string, error) {
	result, err := docconv.Convert(bytes.NewReader(data), "application/pdf", true)
	if err != nil {
		return "", fmt.Errorf("fallback PDF conversion failed: %v", err)
	}
	text := strings.TrimSpace(result.Body)
	if len(text) == 0 {
		return "", fmt.Errorf("no text content extracted from PDF")
	}
	return text, nil
}

// ExtractTextFromWord unzips a DOCX archive and walks it down to raw
// text, discarding formatting.
func (e *DocumentExtractor) ExtractTextFromWord(data []byte) (string, error) {
	e.logger.Debug("Starting Word document text extraction",
		slog.Int("data_size", len(data)))

	mimeType := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	result, err := docconv.Convert(bytes.NewReader(data), mimeType, false)
	if err != nil {
		e.logger.Error("Failed to convert Word document",
			slog.String("error", err.Error()),
			slog.Int("data_size", len(data)))
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	if len(result.Body) == 0 {
		e.logger.Error("No text extracted from Word document")
		return "", fmt.Errorf("%w: no text content extracted from Word document", ErrCorruptDocument)
	}

	e.logger.Info("Successfully extracted text from Word document",
		slog.Int("text_length", len(result.Body)))

	return result.Body, nil
}

// ExtractTextFromPlain reads the bytes as UTF-8, replacing invalid
// sequences with the Unicode replacement rune so a bad byte never
// crashes the pipeline.
func (e *DocumentExtractor) ExtractTextFromPlain(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	e.logger.Warn("Plain text upload contains invalid UTF-8, replacing bad sequences",
		slog.Int("data_size", len(data)))
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// normalizeRuns collapses runs of whitespace inside one page into single
// spaces while keeping line structure out of the way of the summarizer.
func normalizeRuns(pageText string) string {
	return strings.Join(strings.Fields(pageText), " ")
}

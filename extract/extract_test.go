package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		expected      Format
		expectedError bool
	}{
		{name: "PDF", filename: "doc.pdf", expected: FormatPDF},
		{name: "Uppercase PDF", filename: "DOC.PDF", expected: FormatPDF},
		{name: "DOCX", filename: "notes.docx", expected: FormatDOCX},
		{name: "Legacy DOC", filename: "old.doc", expected: FormatDOCX},
		{name: "TXT", filename: "plain.txt", expected: FormatTXT},
		{name: "Unsupported", filename: "image.png", expectedError: true},
		{name: "No extension", filename: "README", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := FormatFromFilename(tt.filename)
			if tt.expectedError {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Expected ErrUnsupportedFormat, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if format != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, format)
			}
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	e := NewDocumentExtractor(testLogger())

	t.Run("Valid UTF-8 passes through", func(t *testing.T) {
		doc, err := e.Extract([]byte("hello world"), FormatTXT)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if doc.Text != "hello world" {
			t.Errorf("Expected passthrough, got %q", doc.Text)
		}
		if doc.Format != FormatTXT {
			t.Errorf("Expected format txt, got %s", doc.Format)
		}
		if doc.ByteLength != len("hello world") {
			t.Errorf("Expected byte length %d, got %d", len("hello world"), doc.ByteLength)
		}
	})

	t.Run("Invalid UTF-8 replaced deterministically", func(t *testing.T) {
		input := []byte{'h', 'i', 0xff, 0xfe, '!'}
		first, err := e.Extract(input, FormatTXT)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if strings.ContainsRune(first.Text, 0xfffd) == false {
			t.Error("Expected replacement rune in output")
		}
		second, _ := e.Extract(input, FormatTXT)
		if first.Text != second.Text {
			t.Error("Replacement must be deterministic")
		}
	})
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := NewDocumentExtractor(testLogger())
	_, err := e.Extract([]byte("data"), Format("rtf"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got: %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	e := NewDocumentExtractor(testLogger())
	_, err := e.Extract([]byte("definitely not a pdf"), FormatPDF)
	if !errors.Is(err, ErrCorruptDocument) {
		t.Errorf("Expected ErrCorruptDocument, got: %v", err)
	}
}

func TestExtractCorruptDOCX(t *testing.T) {
	e := NewDocumentExtractor(testLogger())
	_, err := e.Extract([]byte("not a zip archive"), FormatDOCX)
	if !errors.Is(err, ErrCorruptDocument) {
		t.Errorf("Expected ErrCorruptDocument, got: %v", err)
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildMinimalDOCX(t, "Hello from the document body")
	e := NewDocumentExtractor(testLogger())

	first, err := e.Extract(data, FormatDOCX)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(first.Text, "Hello from the document body") {
		t.Errorf("Expected extracted body text, got %q", first.Text)
	}

	// Extraction must be idempotent for a well-formed document.
	second, err := e.Extract(data, FormatDOCX)
	if err != nil {
		t.Fatalf("Unexpected error on second pass: %v", err)
	}
	if first.Text != second.Text {
		t.Error("Expected identical text on repeated extraction")
	}
}

func buildMinimalDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body>
</w:document>`

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"word/document.xml": document,
	}

	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	return buf.Bytes()
}

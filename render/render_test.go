package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestToPDFProducesDocument(t *testing.T) {
	r := NewRenderer()

	data, err := r.ToPDF("# Title\n\nSome body text with **bold** words.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Output does not start with a PDF header")
	}
}

func TestToPDFEmptyMarkdown(t *testing.T) {
	r := NewRenderer()

	data, err := r.ToPDF("")
	if err != nil {
		t.Fatalf("Unexpected error for empty markdown: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Empty markdown should still produce a valid single-page document")
	}
}

func TestTitledPDF(t *testing.T) {
	r := NewRenderer()

	data, err := r.TitledPDF("AI Summarized Notes", "Body text.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Expected non-empty PDF output")
	}
}

// Markdown shape never fails a render; odd constructs degrade to
// paragraphs instead.
func TestToPDFToleratesOddMarkdown(t *testing.T) {
	inputs := []string{
		"####### seven hashes",
		"| broken | table\nno delimiter row",
		"```\nunclosed fence",
		strings.Repeat("x", 5000),
		"- \n- \n",
	}
	r := NewRenderer()
	for _, input := range inputs {
		if _, err := r.ToPDF(input); err != nil {
			t.Errorf("Render failed for input %.40q: %v", input, err)
		}
	}
}

func TestPageCountSmallDocument(t *testing.T) {
	r := NewRenderer()

	pages, err := r.PageCount("# Title\n\nOne short paragraph.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pages != 1 {
		t.Errorf("Expected 1 page, got %d", pages)
	}
}

func TestPageCountLongDocument(t *testing.T) {
	r := NewRenderer()

	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("A paragraph of body text that takes up vertical space on the page.\n\n")
	}
	pages, err := r.PageCount(b.String())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pages < 2 {
		t.Errorf("Expected the document to span multiple pages, got %d", pages)
	}
}

// A code block taller than the remaining space moves wholesale to a
// fresh page instead of splitting.
func TestCodeBlockPageBreak(t *testing.T) {
	r := NewRenderer()

	codeBlock := "```\n" + strings.Repeat("line of code\n", 50) + "```"

	// Alone it fits the first page.
	pages, err := r.PageCount(codeBlock)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pages != 1 {
		t.Fatalf("Expected the bare code block to fit 1 page, got %d", pages)
	}

	// Pushed down by leading paragraphs it no longer fits, so the whole
	// block breaks to page two.
	doc := strings.Repeat("Leading paragraph.\n\n", 4) + codeBlock
	pages, err = r.PageCount(doc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pages != 2 {
		t.Errorf("Expected exactly 2 pages after the forced break, got %d", pages)
	}
}

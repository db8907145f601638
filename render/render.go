// Package render turns a markdown summary into a paginated PDF with
// manual layout: every token type from the lexer stream is painted at
// an explicit cursor position, GitHub-README style.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin     = 72.0
	listIndent     = 20.0
	quoteIndent    = 25.0
	codeLineHeight = 12.0
	tableRowHeight = 25.0
	cellPadding    = 5.0
	bodySize       = 12.0
)

var headingSizes = map[int]float64{1: 24, 2: 20, 3: 16, 4: 14, 5: 12, 6: 11}

// Renderer builds PDF documents from markdown text. It is stateless;
// all layout state lives in the per-document painter.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// ToPDF renders markdown to PDF bytes. Markdown shape never fails the
// render; only document assembly errors do.
func (r *Renderer) ToPDF(markdown string) ([]byte, error) {
	return r.TitledPDF("", markdown)
}

// TitledPDF renders markdown under an underlined banner title.
func (r *Renderer) TitledPDF(title, markdown string) ([]byte, error) {
	p := newPainter()

	if title != "" {
		p.pdf.SetFont("Helvetica", "BU", 18)
		p.pdf.SetTextColor(0, 0, 0)
		p.pdf.Write(24, p.tr(title))
		p.pdf.Ln(24)
		p.pdf.Ln(12)
	}

	for _, token := range Tokenize(markdown) {
		p.paint(token)
	}

	var buf bytes.Buffer
	if err := p.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf assembly failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders and writes the PDF to path, creating parent
// directories as needed.
func (r *Renderer) WriteFile(path, title, markdown string) error {
	data, err := r.TitledPDF(title, markdown)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// painter owns the render cursor for one document build. It is never
// shared across documents.
type painter struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	pageW    float64
	pageH    float64
	margin   float64
	contentW float64
}

func newPainter() *painter {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	w, h := pdf.GetPageSize()
	return &painter{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		pageW:    w,
		pageH:    h,
		margin:   pageMargin,
		contentW: w - 2*pageMargin,
	}
}

func (p *painter) paint(t Token) {
	switch t.Type {
	case TokenHeading:
		p.paintHeading(t)
	case TokenParagraph:
		p.paintParagraph(t)
	case TokenList:
		p.paintList(t)
	case TokenBlockquote:
		p.paintBlockquote(t)
	case TokenCodeBlock:
		p.paintCodeBlock(t)
	case TokenHorizontalRule:
		p.paintHorizontalRule()
	case TokenTable:
		p.paintTable(t)
	case TokenSpace:
		p.pdf.Ln(bodySize * 0.3)
	}
}

func (p *painter) paintHeading(t Token) {
	size := headingSizes[t.Depth]
	lineHt := size * 1.25

	if t.Depth == 1 {
		p.pdf.Ln(size)
	} else {
		p.pdf.Ln(size * 0.7)
	}

	p.pdf.SetX(p.margin)
	p.writeInline(t.Text, size, "B")
	p.pdf.Ln(lineHt)

	// GitHub draws a light rule under h1 and h2.
	if t.Depth <= 2 {
		p.pdf.SetFont("Helvetica", "B", size)
		width := p.pdf.GetStringWidth(p.tr(plainText(t.Text)))
		if width > p.contentW {
			width = p.contentW
		}
		y := p.pdf.GetY() + 3
		p.pdf.SetDrawColor(0xea, 0xec, 0xef)
		p.pdf.SetLineWidth(1)
		p.pdf.Line(p.margin, y, p.margin+width, y)
		p.pdf.SetDrawColor(0, 0, 0)
	}

	p.pdf.Ln(size * 0.5)
}

func (p *painter) paintParagraph(t Token) {
	p.pdf.SetX(p.margin)
	p.writeInline(t.Text, bodySize, "")
	p.pdf.Ln(bodySize * 1.35)
	p.pdf.Ln(bodySize * 0.7)
}

func (p *painter) paintList(t Token) {
	lineHt := bodySize * 1.35
	for i, item := range t.Items {
		prefix := "• "
		if t.Ordered {
			prefix = fmt.Sprintf("%d. ", i+1)
		}

		p.pdf.SetX(p.margin + listIndent)
		p.pdf.SetFont("Helvetica", "", bodySize)
		p.pdf.SetTextColor(0, 0, 0)
		p.pdf.Write(lineHt, p.tr(prefix))
		p.writeInline(item, bodySize, "")
		p.pdf.Ln(lineHt)
		p.pdf.Ln(bodySize * 0.3)
	}
	p.pdf.Ln(bodySize * 0.4)
}

func (p *painter) paintBlockquote(t Token) {
	lineHt := bodySize * 1.35
	startY := p.pdf.GetY()

	p.pdf.SetFont("Helvetica", "I", bodySize)
	p.pdf.SetTextColor(0x6a, 0x73, 0x7d)
	p.pdf.SetX(p.margin + quoteIndent)
	p.pdf.MultiCell(p.contentW-quoteIndent, lineHt, p.tr(plainText(t.Text)), "", "L", false)

	endY := p.pdf.GetY()
	if endY > startY {
		p.pdf.SetFillColor(0xdf, 0xe2, 0xe5)
		p.pdf.Rect(p.margin+10, startY, 3, endY-startY, "F")
	}

	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.Ln(bodySize * 0.7)
}

func (p *painter) paintCodeBlock(t Token) {
	lines := strings.Split(t.Text, "\n")
	blockHeight := float64(len(lines))*codeLineHeight + 20

	// Code blocks can be tall: measure first and break to a fresh page
	// rather than splitting the block.
	if p.pdf.GetY()+blockHeight > p.pageH-p.margin {
		p.pdf.AddPage()
	}

	startY := p.pdf.GetY()

	// Background first so the text paints on top.
	p.pdf.SetFillColor(0xf6, 0xf8, 0xfa)
	p.pdf.SetDrawColor(0xe1, 0xe4, 0xe8)
	p.pdf.Rect(p.margin+10, startY, p.contentW-20, blockHeight, "FD")

	p.pdf.SetFont("Courier", "", 10)
	p.pdf.SetTextColor(0x24, 0x29, 0x2e)
	p.pdf.SetY(startY + 10)
	for _, line := range lines {
		p.pdf.SetX(p.margin + 20)
		p.pdf.CellFormat(p.contentW-40, codeLineHeight, p.tr(line), "", 1, "L", false, 0, "")
	}

	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.SetY(startY + blockHeight)
	p.pdf.Ln(bodySize)
}

func (p *painter) paintHorizontalRule() {
	p.pdf.Ln(bodySize * 0.5)
	y := p.pdf.GetY()
	p.pdf.SetDrawColor(0xe1, 0xe4, 0xe8)
	p.pdf.SetLineWidth(2)
	p.pdf.Line(p.margin, y, p.pageW-p.margin, y)
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.SetLineWidth(0.2)
	p.pdf.Ln(bodySize * 0.5)
}

func (p *painter) paintTable(t Token) {
	columns := len(t.Header)
	if columns == 0 {
		return
	}
	colWidth := p.contentW / float64(columns)

	blockHeight := float64(1+len(t.Rows)) * tableRowHeight
	if p.pdf.GetY()+blockHeight > p.pageH-p.margin {
		p.pdf.AddPage()
	}

	p.pdf.SetFont("Helvetica", "B", 11)
	p.pdf.SetFillColor(0xf6, 0xf8, 0xfa)
	p.pdf.SetDrawColor(0xe1, 0xe4, 0xe8)
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.SetX(p.margin)
	for _, cell := range t.Header {
		p.pdf.CellFormat(colWidth, tableRowHeight, p.clipCell(cell, colWidth), "1", 0, "L", true, 0, "")
	}
	p.pdf.Ln(tableRowHeight)

	p.pdf.SetFont("Helvetica", "", 11)
	for _, row := range t.Rows {
		p.pdf.SetX(p.margin)
		for i := 0; i < columns; i++ {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			p.pdf.CellFormat(colWidth, tableRowHeight, p.clipCell(cell, colWidth), "1", 0, "L", false, 0, "")
		}
		p.pdf.Ln(tableRowHeight)
	}

	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.Ln(bodySize)
}

// clipCell truncates cell text to the fixed column width. Overflowing
// content is clipped, not wrapped.
func (p *painter) clipCell(text string, colWidth float64) string {
	avail := colWidth - 2*cellPadding
	s := p.tr(text)
	if p.pdf.GetStringWidth(s) <= avail {
		return s
	}
	for len(s) > 0 && p.pdf.GetStringWidth(s+"...") > avail {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// writeInline paints one logical line as styled sub-runs on a shared
// baseline, wrapping as needed.
func (p *painter) writeInline(text string, size float64, baseStyle string) {
	lineHt := size * 1.35

	for _, span := range ParseInline(text) {
		switch span.Style {
		case SpanBold:
			p.pdf.SetFont("Helvetica", "B", size)
			p.pdf.SetTextColor(0, 0, 0)
		case SpanItalic:
			p.pdf.SetFont("Helvetica", "I", size)
			p.pdf.SetTextColor(0, 0, 0)
		case SpanCode:
			p.pdf.SetFont("Courier", "", size-1)
			p.pdf.SetTextColor(0xc7, 0x25, 0x4e)
			p.highlightCode(span.Text, size)
		case SpanStrike:
			p.pdf.SetFont("Helvetica", baseStyle, size)
			p.pdf.SetTextColor(0x6a, 0x73, 0x7d)
		case SpanLink:
			p.pdf.SetFont("Helvetica", baseStyle+"U", size)
			p.pdf.SetTextColor(0x03, 0x66, 0xd6)
		default:
			p.pdf.SetFont("Helvetica", baseStyle, size)
			p.pdf.SetTextColor(0, 0, 0)
		}

		content := span.Text
		if span.Style == SpanLink {
			content = fmt.Sprintf("%s (%s)", span.Text, span.URL)
		}

		startX, startY := p.pdf.GetX(), p.pdf.GetY()
		p.pdf.Write(lineHt, p.tr(content))

		// Strike decoration is drawn by hand over the written run.
		if span.Style == SpanStrike && p.pdf.GetY() == startY {
			strikeY := startY + lineHt*0.5
			p.pdf.SetDrawColor(0x6a, 0x73, 0x7d)
			p.pdf.SetLineWidth(0.5)
			p.pdf.Line(startX, strikeY, p.pdf.GetX(), strikeY)
			p.pdf.SetDrawColor(0, 0, 0)
		}
	}

	p.pdf.SetFont("Helvetica", baseStyle, size)
	p.pdf.SetTextColor(0, 0, 0)
}

// highlightCode draws the small background rectangle behind an inline
// code span before its text is written.
func (p *painter) highlightCode(text string, size float64) {
	width := p.pdf.GetStringWidth(p.tr(text))
	x, y := p.pdf.GetX(), p.pdf.GetY()
	if x+width > p.pageW-p.margin {
		// The span will wrap; skip the highlight rather than paint a
		// rectangle across the margin.
		return
	}
	p.pdf.SetFillColor(0xf9, 0xf2, 0xf4)
	p.pdf.Rect(x, y+2, width+2, size+2, "F")
}

// plainText strips inline markers, keeping only visible text.
func plainText(text string) string {
	var b strings.Builder
	for _, span := range ParseInline(text) {
		b.WriteString(span.Text)
	}
	return b.String()
}

// PageCount reports how many pages a markdown document renders to,
// painting exactly as ToPDF does.
func (r *Renderer) PageCount(markdown string) (int, error) {
	p := newPainter()
	for _, token := range Tokenize(markdown) {
		p.paint(token)
	}
	if err := p.pdf.Error(); err != nil {
		return 0, err
	}
	return p.pdf.PageCount(), nil
}

package render

import (
	"reflect"
	"testing"
)

func TestParseInline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Span
	}{
		{
			name:     "Plain text only",
			input:    "just plain text",
			expected: []Span{{Text: "just plain text", Style: SpanPlain}},
		},
		{
			name:  "Bold run",
			input: "a **bold** word",
			expected: []Span{
				{Text: "a ", Style: SpanPlain},
				{Text: "bold", Style: SpanBold},
				{Text: " word", Style: SpanPlain},
			},
		},
		{
			name:  "Italic run",
			input: "an *italic* word",
			expected: []Span{
				{Text: "an ", Style: SpanPlain},
				{Text: "italic", Style: SpanItalic},
				{Text: " word", Style: SpanPlain},
			},
		},
		{
			name:  "Inline code",
			input: "call `Load()` first",
			expected: []Span{
				{Text: "call ", Style: SpanPlain},
				{Text: "Load()", Style: SpanCode},
				{Text: " first", Style: SpanPlain},
			},
		},
		{
			name:  "Strikethrough",
			input: "~~removed~~ text",
			expected: []Span{
				{Text: "removed", Style: SpanStrike},
				{Text: " text", Style: SpanPlain},
			},
		},
		{
			name:  "Link",
			input: "see [docs](https://example.com) here",
			expected: []Span{
				{Text: "see ", Style: SpanPlain},
				{Text: "docs", Style: SpanLink, URL: "https://example.com"},
				{Text: " here", Style: SpanPlain},
			},
		},
		{
			name:  "Mixed styles in order",
			input: "**b** then *i* then `c`",
			expected: []Span{
				{Text: "b", Style: SpanBold},
				{Text: " then ", Style: SpanPlain},
				{Text: "i", Style: SpanItalic},
				{Text: " then ", Style: SpanPlain},
				{Text: "c", Style: SpanCode},
			},
		},
		{
			name:     "Unterminated marker stays literal",
			input:    "a **dangling run",
			expected: []Span{{Text: "a **dangling run", Style: SpanPlain}},
		},
		{
			name:     "Empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInline(tt.input)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected spans %+v, got %+v", tt.expected, got)
			}
		})
	}
}

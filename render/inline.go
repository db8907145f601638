package render

import "regexp"

type SpanStyle int

const (
	SpanPlain SpanStyle = iota
	SpanBold
	SpanItalic
	SpanCode
	SpanStrike
	SpanLink
)

// Span is one styled sub-run of a line of text.
type Span struct {
	Text  string
	Style SpanStyle
	URL   string // SpanLink only
}

// Matches **bold**, *italic*, `code`, ~~strikethrough~~ and
// [label](url), sequentially and non-overlapping.
var inlineRe = regexp.MustCompile("(\\*\\*(.+?)\\*\\*)|(\\*(.+?)\\*)|(`(.+?)`)|(~~(.+?)~~)|(\\[(.+?)\\]\\((.+?)\\))")

// ParseInline splits a line into styled spans. Text with no markers
// comes back as a single plain span; malformed markers are left as
// literal text rather than dropped.
func ParseInline(text string) []Span {
	var spans []Span
	pos := 0

	for _, m := range inlineRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > pos {
			spans = append(spans, Span{Text: text[pos:m[0]], Style: SpanPlain})
		}

		switch {
		case m[2] >= 0: // **bold**
			spans = append(spans, Span{Text: text[m[4]:m[5]], Style: SpanBold})
		case m[6] >= 0: // *italic*
			spans = append(spans, Span{Text: text[m[8]:m[9]], Style: SpanItalic})
		case m[10] >= 0: // `code`
			spans = append(spans, Span{Text: text[m[12]:m[13]], Style: SpanCode})
		case m[14] >= 0: // ~~strike~~
			spans = append(spans, Span{Text: text[m[16]:m[17]], Style: SpanStrike})
		case m[18] >= 0: // [label](url)
			spans = append(spans, Span{
				Text:  text[m[20]:m[21]],
				Style: SpanLink,
				URL:   text[m[22]:m[23]],
			})
		}

		pos = m[1]
	}

	if pos < len(text) {
		spans = append(spans, Span{Text: text[pos:], Style: SpanPlain})
	}

	return spans
}

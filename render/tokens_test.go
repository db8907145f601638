package render

import (
	"reflect"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}
	return types
}

func TestTokenizeBlockTypes(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		expected []TokenType
	}{
		{
			name:     "Heading then paragraph",
			markdown: "# Title\n\nHello world.",
			expected: []TokenType{TokenHeading, TokenSpace, TokenParagraph},
		},
		{
			name:     "Adjacent blocks emit no space",
			markdown: "# Title\nHello world.",
			expected: []TokenType{TokenHeading, TokenParagraph},
		},
		{
			name:     "Unordered list",
			markdown: "- one\n- two\n- three",
			expected: []TokenType{TokenList},
		},
		{
			name:     "Blockquote",
			markdown: "> quoted text",
			expected: []TokenType{TokenBlockquote},
		},
		{
			name:     "Fenced code block",
			markdown: "```\nfmt.Println(\"hi\")\n```",
			expected: []TokenType{TokenCodeBlock},
		},
		{
			name:     "Horizontal rule between paragraphs",
			markdown: "above\n\n---\n\nbelow",
			expected: []TokenType{TokenParagraph, TokenHorizontalRule, TokenSpace, TokenParagraph},
		},
		{
			name:     "Pipe table",
			markdown: "| A | B |\n|---|---|\n| 1 | 2 |",
			expected: []TokenType{TokenTable},
		},
		{
			name:     "Empty input",
			markdown: "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenTypes(Tokenize(tt.markdown))
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected token types %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTokenizeHeading(t *testing.T) {
	tokens := Tokenize("## Section Name")
	if len(tokens) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Depth != 2 {
		t.Errorf("Expected depth 2, got %d", tokens[0].Depth)
	}
	if tokens[0].Text != "Section Name" {
		t.Errorf("Expected heading text 'Section Name', got %q", tokens[0].Text)
	}
}

func TestTokenizeParagraphKeepsInlineMarkers(t *testing.T) {
	tokens := Tokenize("This is **bold** and `code`.")
	if len(tokens) != 1 || tokens[0].Type != TokenParagraph {
		t.Fatalf("Expected a single paragraph token, got %+v", tokens)
	}
	if tokens[0].Text != "This is **bold** and `code`." {
		t.Errorf("Inline markers were not preserved: %q", tokens[0].Text)
	}
}

func TestTokenizeLists(t *testing.T) {
	tokens := Tokenize("1. first\n2. second")
	if len(tokens) != 1 || tokens[0].Type != TokenList {
		t.Fatalf("Expected a single list token, got %+v", tokens)
	}
	if !tokens[0].Ordered {
		t.Error("Expected an ordered list")
	}
	if !reflect.DeepEqual(tokens[0].Items, []string{"first", "second"}) {
		t.Errorf("Unexpected list items: %v", tokens[0].Items)
	}

	tokens = Tokenize("- outer\n  - inner")
	if len(tokens) != 1 {
		t.Fatalf("Expected nested list flattened into 1 token, got %d", len(tokens))
	}
	if !reflect.DeepEqual(tokens[0].Items, []string{"outer", "inner"}) {
		t.Errorf("Expected nested items flattened in order, got %v", tokens[0].Items)
	}
}

func TestTokenizeCodeBlock(t *testing.T) {
	tokens := Tokenize("```go\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n```")
	if len(tokens) != 1 || tokens[0].Type != TokenCodeBlock {
		t.Fatalf("Expected a single code block token, got %+v", tokens)
	}
	expected := "func main() {\n\tfmt.Println(\"hi\")\n}"
	if tokens[0].Text != expected {
		t.Errorf("Expected code %q, got %q", expected, tokens[0].Text)
	}
}

func TestTokenizeTable(t *testing.T) {
	tokens := Tokenize("| Name | Score |\n|------|-------|\n| Ada | 10 |\n| Bob | 7 |")
	if len(tokens) != 1 || tokens[0].Type != TokenTable {
		t.Fatalf("Expected a single table token, got %+v", tokens)
	}
	tok := tokens[0]
	if !reflect.DeepEqual(tok.Header, []string{"Name", "Score"}) {
		t.Errorf("Unexpected header: %v", tok.Header)
	}
	expectedRows := [][]string{{"Ada", "10"}, {"Bob", "7"}}
	if !reflect.DeepEqual(tok.Rows, expectedRows) {
		t.Errorf("Expected rows %v, got %v", expectedRows, tok.Rows)
	}
}

func TestTokenizeBlockquoteMultiParagraph(t *testing.T) {
	tokens := Tokenize("> first line\n>\n> second line")
	if len(tokens) != 1 || tokens[0].Type != TokenBlockquote {
		t.Fatalf("Expected a single blockquote token, got %+v", tokens)
	}
	if tokens[0].Text != "first line\nsecond line" {
		t.Errorf("Unexpected blockquote text: %q", tokens[0].Text)
	}
}

func TestTokenizeDeterminism(t *testing.T) {
	markdown := "# Title\n\nBody with **bold**.\n\n- a\n- b\n\n```\ncode\n```"
	first := Tokenize(markdown)
	for i := 0; i < 5; i++ {
		if !reflect.DeepEqual(Tokenize(markdown), first) {
			t.Fatal("Tokenize is not deterministic for identical input")
		}
	}
}

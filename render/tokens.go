package render

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

type TokenType int

const (
	TokenHeading TokenType = iota
	TokenParagraph
	TokenList
	TokenBlockquote
	TokenCodeBlock
	TokenHorizontalRule
	TokenTable
	TokenSpace
)

// Token is one structural unit of parsed markdown. Which fields are
// populated depends on Type, mirroring a lexer token stream: the
// renderer consumes tokens strictly in order, each exactly once.
type Token struct {
	Type    TokenType
	Depth   int    // TokenHeading: 1..6
	Text    string // heading/paragraph/blockquote/code text, inline markers intact
	Ordered bool   // TokenList
	Items   []string
	Header  []string // TokenTable
	Rows    [][]string
}

var parser = goldmark.New(goldmark.WithExtensions(extension.Table))

// Tokenize parses markdown into the flat token stream the PDF painter
// consumes. Unrecognized block shapes degrade to paragraphs rather
// than being dropped.
func Tokenize(markdown string) []Token {
	source := []byte(markdown)
	root := parser.Parser().Parse(text.NewReader(source))

	var tokens []Token
	prevStop := -1

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		start, stop := nodeSpan(node, source)
		if prevStop >= 0 && start > prevStop && blankLines(source, prevStop, start) >= 1 {
			tokens = append(tokens, Token{Type: TokenSpace})
		}
		if stop > prevStop {
			prevStop = stop
		}

		switch n := node.(type) {
		case *ast.Heading:
			depth := n.Level
			if depth < 1 {
				depth = 1
			}
			if depth > 6 {
				depth = 6
			}
			tokens = append(tokens, Token{
				Type:  TokenHeading,
				Depth: depth,
				Text:  rawLines(n, source),
			})
		case *ast.Paragraph:
			tokens = append(tokens, Token{Type: TokenParagraph, Text: rawLines(n, source)})
		case *ast.List:
			tokens = append(tokens, Token{
				Type:    TokenList,
				Ordered: n.IsOrdered(),
				Items:   listItems(n, source),
			})
		case *ast.Blockquote:
			tokens = append(tokens, Token{Type: TokenBlockquote, Text: blockText(n, source)})
		case *ast.FencedCodeBlock:
			tokens = append(tokens, Token{Type: TokenCodeBlock, Text: codeLines(n, source)})
		case *ast.CodeBlock:
			tokens = append(tokens, Token{Type: TokenCodeBlock, Text: codeLines(n, source)})
		case *ast.ThematicBreak:
			tokens = append(tokens, Token{Type: TokenHorizontalRule})
		case *extast.Table:
			if t, ok := tableToken(n, source); ok {
				tokens = append(tokens, t)
			}
		default:
			if t := rawLines(node, source); t != "" {
				tokens = append(tokens, Token{Type: TokenParagraph, Text: t})
			}
		}
	}

	return tokens
}

// rawLines joins a node's source lines, keeping inline markdown markers
// for the inline span matcher.
func rawLines(n ast.Node, source []byte) string {
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(source)), "\n"))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func codeLines(n ast.Node, source []byte) string {
	lines := n.Lines()
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}

// listItems flattens a list, nested sublists included, into item texts.
func listItems(list *ast.List, source []byte) []string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.List:
				items = append(items, listItems(c, source)...)
			default:
				if t := rawLines(c, source); t != "" {
					items = append(items, t)
				}
			}
		}
	}
	return items
}

// blockText concatenates the paragraphs inside a container block.
func blockText(n ast.Node, source []byte) string {
	var parts []string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t := rawLines(child, source); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

func tableToken(table *extast.Table, source []byte) (Token, bool) {
	t := Token{Type: TokenTable}
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, inlineText(cell, source))
		}
		switch row.(type) {
		case *extast.TableHeader:
			t.Header = cells
		case *extast.TableRow:
			t.Rows = append(t.Rows, cells)
		}
	}
	if len(t.Header) == 0 {
		return Token{}, false
	}
	return t, true
}

// inlineText flattens already-parsed inline content to plain text.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// nodeSpan finds the byte range a block covers, derived from whatever
// source lines the node or its descendants carry. Nodes with no line
// information (thematic breaks) report an empty span.
func nodeSpan(n ast.Node, source []byte) (int, int) {
	start, stop := -1, -1
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if start == -1 || seg.Start < start {
				start = seg.Start
			}
			if seg.Stop > stop {
				stop = seg.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	return start, stop
}

// blankLines counts the complete blank lines separating two blocks: a
// gap holding k newlines encloses k-1 whole lines.
func blankLines(source []byte, from, to int) int {
	if from < 0 || to > len(source) || from >= to {
		return 0
	}
	newlines := 0
	for _, c := range source[from:to] {
		if c == '\n' {
			newlines++
		}
	}
	if newlines < 2 {
		return 0
	}
	return newlines - 1
}

package quiz

import (
	"regexp"
	"strings"
)

var (
	fenceRe        = regexp.MustCompile("(?s)```[a-zA-Z]*\n?|```")
	unquotedKeyRe  = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_\-]*)\s*:`)
	singleQuoteRe  = regexp.MustCompile(`'([^'\\]*)'`)
	trailingComma  = regexp.MustCompile(`,\s*([\]}])`)
	smartQuoteRepl = strings.NewReplacer(
		"“", `"`, // left double
		"”", `"`, // right double
		"‘", "'", // left single
		"’", "'", // right single
	)
)

// Repair applies a best-effort cleanup pass to near-JSON text: code
// fences, smart quotes, unquoted keys, single-quoted strings, trailing
// commas, and truncated brackets. The result is not guaranteed to
// parse; callers must still treat it as untrusted.
func Repair(s string) string {
	s = fenceRe.ReplaceAllString(s, "")
	s = smartQuoteRepl.Replace(s)
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = singleQuoteRe.ReplaceAllString(s, `"$1"`)
	s = trailingComma.ReplaceAllString(s, "$1")
	s = closeTruncated(s)
	return strings.TrimSpace(s)
}

// closeTruncated balances unclosed strings, braces, and brackets at the
// end of text that was cut off mid-generation.
func closeTruncated(s string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !inString && len(stack) == 0 {
		return s
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}

	// Drop a dangling comma before closing.
	trimmed := strings.TrimRight(b.String(), " \t\n\r")
	if strings.HasSuffix(trimmed, ",") {
		b.Reset()
		b.WriteString(strings.TrimSuffix(trimmed, ","))
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}

	return b.String()
}

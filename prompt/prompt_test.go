package prompt

import (
	"strings"
	"testing"

	"github.com/noteforge/noteforge/llm_service"
)

func TestSummarizeTruncation(t *testing.T) {
	longText := strings.Repeat("a", SummarizeCap+5000)

	messages := Summarize(longText)

	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != llm_service.RoleSystem {
		t.Errorf("Expected first message role system, got %s", messages[0].Role)
	}
	if messages[1].Role != llm_service.RoleUser {
		t.Errorf("Expected second message role user, got %s", messages[1].Role)
	}
	if len(messages[1].Content) != SummarizeCap {
		t.Errorf("Expected user content of exactly %d bytes, got %d", SummarizeCap, len(messages[1].Content))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		max         int
		expectedLen int
	}{
		{name: "Shorter than cap untouched", text: "hello", max: 100, expectedLen: 5},
		{name: "Exactly at cap untouched", text: strings.Repeat("x", 50), max: 50, expectedLen: 50},
		{name: "Longer than cap is exactly cap", text: strings.Repeat("x", 51), max: 50, expectedLen: 50},
		{name: "Empty text", text: "", max: 50, expectedLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.max)
			if len(got) != tt.expectedLen {
				t.Errorf("Expected length %d, got %d", tt.expectedLen, len(got))
			}
		})
	}
}

func TestQuizTruncation(t *testing.T) {
	longText := strings.Repeat("b", QuizCap*2)

	messages := Quiz(longText)

	user := messages[1].Content
	if !strings.Contains(user, strings.Repeat("b", QuizCap)) {
		t.Error("Expected user content to contain the capped document text")
	}
	if strings.Contains(user, strings.Repeat("b", QuizCap+1)) {
		t.Error("Document text exceeded the quiz cap")
	}
	if !strings.Contains(user, "JSON array") {
		t.Error("Quiz prompt must demand a JSON array")
	}
}

func TestAnswerInterpolation(t *testing.T) {
	messages := Answer("the document text", "What is this about?")

	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	user := messages[1].Content
	if !strings.Contains(user, "the document text") {
		t.Error("Expected context in user message")
	}
	if !strings.Contains(user, "What is this about?") {
		t.Error("Expected question in user message")
	}
}

// A zero-length document still builds a structurally valid prompt; the
// orchestrator rejects empties upstream, not the builder.
func TestEmptyDocument(t *testing.T) {
	for _, messages := range [][]llm_service.Message{
		Summarize(""),
		Answer("", "Anything?"),
		Quiz(""),
	} {
		if len(messages) != 2 {
			t.Fatalf("Expected 2 messages, got %d", len(messages))
		}
		if messages[0].Content == "" {
			t.Error("System instruction must not be empty")
		}
	}
}

func TestDeterminism(t *testing.T) {
	first := Summarize("same input")
	second := Summarize("same input")

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Prompt builder is not deterministic at message %d", i)
		}
	}
}

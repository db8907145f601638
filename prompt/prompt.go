// Package prompt assembles the role-tagged message sequences sent to
// the LLM for each task. Builders are pure: same inputs, same prompt.
package prompt

import (
	"fmt"

	"github.com/noteforge/noteforge/llm_service"
)

// Character caps applied to document text per task. They bound request
// cost and latency; longer text is truncated, never rejected.
const (
	SummarizeCap = 50000
	QuizCap      = 20000
	AnswerCap    = 4000
)

const summarizeSystem = "You are a helpful assistant. Summarize the following document for a student. " +
	"The summary should be clear, concise, and cover the main points, key ideas, and important details.\n\n" +
	"Formatting rules:\n" +
	"- Use markdown headings (##, ###) for section titles\n" +
	"- Use - for bullet lists. Do NOT use the bullet character (•)\n" +
	"- Use numbered lists (1., 2., 3.) for sequential steps or ranked items\n" +
	"- Use **bold** for important terms, key concepts, and emphasis\n" +
	"- Use *italics* for secondary emphasis or technical terms\n" +
	"- Use `inline code` for technical terms, commands, or specific values\n" +
	"- Use > blockquotes for important notes or callouts\n" +
	"- Use --- (horizontal rules) between major sections\n\n" +
	"Do NOT copy the text verbatim—write a summary in your own words. " +
	"Make it student-friendly and easy to understand."

const answerSystem = "You are an expert teaching assistant that provides beautifully formatted, clear explanations.\n\n" +
	"Formatting guidelines:\n" +
	"- Use ## for main sections and ### for subsections\n" +
	"- Use **bold** for important terms, key concepts, and emphasis\n" +
	"- Use *italics* for secondary emphasis or technical terms\n" +
	"- Use > blockquotes for important notes, tips, or warnings\n" +
	"- Use - for bullet lists and 1. for numbered lists\n" +
	"- ONLY use code blocks for code, formulas, commands, or structured data; " +
	"for general explanations do NOT use code blocks\n" +
	"- Use inline code (`text`) for technical terms, file names, or short references\n\n" +
	"Tone: clear, friendly, and educational. Explain concepts thoroughly but concisely, " +
	"and adapt technical depth to the question's context."

const quizSystem = "You are an expert educational assessment designer. You create thoughtful, " +
	"well-crafted multiple-choice questions that effectively test comprehension and understanding. " +
	"Always respond with valid JSON arrays only."

const quizInstructions = `Based on the following text, generate a quiz of 10 high-quality multiple-choice questions.

Requirements:
- Test understanding of key concepts, not just memorization
- Each question must have exactly 4 options (A, B, C, D)
- Only one correct answer per question
- All options should be plausible to avoid obvious answers
- Mix question types: factual recall, conceptual understanding, and application

Output format: return ONLY a valid JSON array with no additional text or explanations.

Example:
[
  {
    "question": "What is the main topic discussed in the text?",
    "options": ["A) Technology", "B) Science", "C) History", "D) Literature"],
    "answer": "B) Science"
  }
]

Text:
%s

Generate the quiz now in the exact JSON format shown above.`

// Summarize builds the prompt for the markdown notes summary.
func Summarize(documentText string) []llm_service.Message {
	return []llm_service.Message{
		{Role: llm_service.RoleSystem, Content: summarizeSystem},
		{Role: llm_service.RoleUser, Content: Truncate(documentText, SummarizeCap)},
	}
}

// Answer builds the prompt for a free-form question over document context.
func Answer(documentText, question string) []llm_service.Message {
	user := fmt.Sprintf("Context:\n\n%s\n\nQuestion: %s\n\n"+
		"Please provide a comprehensive, well-structured answer using markdown formatting. "+
		"Include relevant examples and insights.",
		Truncate(documentText, AnswerCap), question)
	return []llm_service.Message{
		{Role: llm_service.RoleSystem, Content: answerSystem},
		{Role: llm_service.RoleUser, Content: user},
	}
}

// Quiz builds the prompt instructing the model to emit only a JSON
// array of question objects.
func Quiz(documentText string) []llm_service.Message {
	return []llm_service.Message{
		{Role: llm_service.RoleSystem, Content: quizSystem},
		{Role: llm_service.RoleUser, Content: fmt.Sprintf(quizInstructions, Truncate(documentText, QuizCap))},
	}
}

// Truncate caps text at max bytes. Truncation is exact and
// deterministic; the cap bounds request size, not meaning.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

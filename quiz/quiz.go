// Package quiz converts the raw quiz text an LLM returns into a
// validated question set. The model is an untrusted text generator:
// the response may be valid JSON, JSON wrapped in commentary, or JSON
// that is syntactically broken, and every layer here exists to cope
// with that without ever trusting the model's self-reported format
// compliance.
package quiz

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrUnparsableQuiz = errors.New("unparsable quiz response")

type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Parse extracts a question set from raw LLM output. Strategies are
// applied cheapest-first:
//
//  1. strict parse of the first [...] substring
//  2. repaired parse of that substring
//  3. strict parse of the whole text (when no bracketed substring)
//  4. repaired parse of the whole text
//
// After any successful parse, elements that do not structurally match
// a question are dropped; an empty remainder is a hard failure.
func Parse(raw string) ([]Question, error) {
	candidate, found := bracketedArray(raw)

	var items []json.RawMessage
	var parsed bool

	if found {
		if err := json.Unmarshal([]byte(candidate), &items); err == nil {
			parsed = true
		} else if err := json.Unmarshal([]byte(Repair(candidate)), &items); err == nil {
			parsed = true
		}
	} else {
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			parsed = true
		} else if err := json.Unmarshal([]byte(Repair(raw)), &items); err == nil {
			parsed = true
		}
	}

	if !parsed {
		return nil, ErrUnparsableQuiz
	}

	questions := make([]Question, 0, len(items))
	for _, item := range items {
		if q, ok := validQuestion(item); ok {
			questions = append(questions, q)
		}
	}

	if len(questions) == 0 {
		return nil, ErrUnparsableQuiz
	}

	return questions, nil
}

// bracketedArray returns the greedy first-'['-to-last-']' substring.
func bracketedArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// validQuestion checks one parsed element for the required shape:
// string question, array of string options (at least two), string
// answer. Whether the answer matches one of the options is the model's
// problem, not enforced here.
func validQuestion(item json.RawMessage) (Question, bool) {
	var shape struct {
		Question json.RawMessage `json:"question"`
		Options  json.RawMessage `json:"options"`
		Answer   json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(item, &shape); err != nil {
		return Question{}, false
	}

	var q Question
	if err := json.Unmarshal(shape.Question, &q.Question); err != nil || q.Question == "" {
		return Question{}, false
	}
	if err := json.Unmarshal(shape.Answer, &q.Answer); err != nil || q.Answer == "" {
		return Question{}, false
	}

	var rawOptions []json.RawMessage
	if err := json.Unmarshal(shape.Options, &rawOptions); err != nil {
		return Question{}, false
	}
	for _, rawOpt := range rawOptions {
		var opt string
		if err := json.Unmarshal(rawOpt, &opt); err == nil {
			q.Options = append(q.Options, opt)
		}
	}
	if len(q.Options) < 2 {
		return Question{}, false
	}

	return q, true
}

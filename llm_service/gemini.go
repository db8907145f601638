package llm_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// GeminiService calls the Google Generative Language REST API directly.
type GeminiService struct {
	httpClient *http.Client
	logger     *zap.Logger
	apiURL     string
	apiKey     string
}

func NewGeminiService(logger *zap.Logger, apiURL, apiKey string) *GeminiService {
	return &GeminiService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

func (s *GeminiService) Call(ctx context.Context, messages []Message, opts *Options) (*Response, error) {
	maxRetries := 3
	retryDelay := 2 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		response, err := s.callGemini(ctx, messages, opts)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt == maxRetries {
			s.logger.Error("Error calling Gemini API after multiple attempts",
				zap.Int("attempts", maxRetries),
				zap.Error(err))
			break
		}

		s.logger.Warn("Attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("retryDelay", retryDelay),
			zap.Error(err))

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		retryDelay *= 2
	}

	return nil, fmt.Errorf("failed to call Gemini API after %d attempts: %w", maxRetries, lastErr)
}

func (s *GeminiService) callGemini(ctx context.Context, messages []Message, opts *Options) (*Response, error) {
	// Gemini's generateContent endpoint takes a single text part, so the
	// role-tagged prompt is flattened in order.
	var prompt strings.Builder
	for i, msg := range messages {
		if i > 0 {
			prompt.WriteString("\n")
		}
		prompt.WriteString(msg.Content)
	}

	temperature := 0.7
	topP := 0.95
	maxTokens := 8192
	if opts != nil {
		if opts.Temperature > 0 {
			temperature = opts.Temperature
		}
		if opts.TopP > 0 {
			topP = opts.TopP
		}
		if opts.MaxTokens > 0 {
			maxTokens = opts.MaxTokens
		}
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]string{
					{"text": prompt.String()},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      temperature,
			"topP":             topP,
			"maxOutputTokens":  maxTokens,
			"responseMimeType": "text/plain",
		},
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request body: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", s.apiURL, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Kind:       classifyStatus(resp.StatusCode),
			Provider:   "Gemini",
			StatusCode: resp.StatusCode,
			Message:    truncateForLog(string(body)),
		}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		UsageMetadata *struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
		ModelVersion string `json:"modelVersion"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &APIError{
			Kind:     KindMalformedResponse,
			Provider: "Gemini",
			Message:  fmt.Sprintf("error unmarshaling response: %v", err),
		}
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, &APIError{
			Kind:     KindMalformedResponse,
			Provider: "Gemini",
			Message:  "no completion returned",
		}
	}

	var content strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}
	if content.Len() == 0 {
		return nil, &APIError{
			Kind:     KindMalformedResponse,
			Provider: "Gemini",
			Message:  "empty completion content",
		}
	}

	response := &Response{
		Content:      content.String(),
		Model:        result.ModelVersion,
		FinishReason: result.Candidates[0].FinishReason,
	}
	if result.UsageMetadata != nil {
		response.Usage = &Usage{
			PromptTokens:     result.UsageMetadata.PromptTokenCount,
			CompletionTokens: result.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      result.UsageMetadata.TotalTokenCount,
		}
	}

	return response, nil
}

func truncateForLog(s string) string {
	const max = 512
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

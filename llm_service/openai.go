package llm_service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIService drives any OpenAI-compatible chat-completion endpoint
// (OpenAI itself, Groq, Together) selected via base URL.
type OpenAIService struct {
	client       *openai.Client
	logger       *zap.Logger
	defaultModel string
}

func NewOpenAIService(logger *zap.Logger, baseURL, apiKey, model string) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIService{
		client:       openai.NewClientWithConfig(cfg),
		logger:       logger,
		defaultModel: model,
	}
}

func (s *OpenAIService) Call(ctx context.Context, messages []Message, opts *Options) (*Response, error) {
	maxRetries := 3
	retryDelay := 2 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		response, err := s.callOpenAI(ctx, messages, opts)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt == maxRetries {
			s.logger.Error("Error calling OpenAI-compatible API after multiple attempts",
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

	return nil, fmt.Errorf("failed to call OpenAI-compatible API after %d attempts: %w", maxRetries, lastErr)
}

func (s *OpenAIService) callOpenAI(ctx context.Context, messages []Message, opts *Options) (*Response, error) {
	resp, err := s.client.CreateChatCompletion(ctx, s.buildRequest(messages, opts))
	if err != nil {
		return nil, normalizeOpenAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &APIError{
			Kind:     KindMalformedResponse,
			Provider: "OpenAI",
			Message:  "no completion returned",
		}
	}

	choice := resp.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Stream delivers the completion chunk by chunk. The underlying network
// stream is closed when this returns, whether the consumer drained it
// or ctx was cancelled.
func (s *OpenAIService) Stream(ctx context.Context, messages []Message, opts *Options, handler StreamHandler) error {
	stream, err := s.client.CreateChatCompletionStream(ctx, s.buildRequest(messages, opts))
	if err != nil {
		return normalizeOpenAIError(err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return normalizeOpenAIError(err)
		}
		if len(resp.Choices) > 0 {
			handler(resp.Choices[0].Delta.Content)
		}
	}
}

func (s *OpenAIService) buildRequest(messages []Message, opts *Options) openai.ChatCompletionRequest {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    s.defaultModel,
		Messages: openaiMessages,
	}
	if opts != nil {
		if opts.Model != "" {
			req.Model = opts.Model
		}
		if opts.Temperature > 0 {
			req.Temperature = float32(opts.Temperature)
		}
		if opts.TopP > 0 {
			req.TopP = float32(opts.TopP)
		}
		if opts.MaxTokens > 0 {
			req.MaxTokens = opts.MaxTokens
		}
	}
	return req
}

func normalizeOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			Kind:       classifyStatus(apiErr.HTTPStatusCode),
			Provider:   "OpenAI",
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{
			Kind:       classifyStatus(reqErr.HTTPStatusCode),
			Provider:   "OpenAI",
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
		}
	}
	return err
}

package llm_service

import (
	"context"
)

type MockLLMService struct {
	CallFunc func(ctx context.Context, messages []Message, opts *Options) (*Response, error)
}

func (m *MockLLMService) Call(ctx context.Context, messages []Message, opts *Options) (*Response, error) {
	if m.CallFunc != nil {
		return m.CallFunc(ctx, messages, opts)
	}
	return &Response{Content: "mock response"}, nil
}

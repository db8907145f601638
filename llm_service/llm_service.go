package llm_service

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a prompt. An ordered slice of
// messages forms the full prompt sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries per-call generation parameters. A nil Options means
// provider defaults.
type Options struct {
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the normalized completion shape every provider client
// reduces to. Content is untrusted free text; downstream parsers must
// treat it defensively.
type Response struct {
	Content      string
	Model        string
	FinishReason string
	Usage        *Usage
}

type Service interface {
	Call(ctx context.Context, messages []Message, opts *Options) (*Response, error)
}

// StreamHandler receives partial-content chunks in arrival order.
type StreamHandler func(chunk string)

// StreamingService is implemented by providers that can deliver the
// completion incrementally. The stream is finite and non-restartable;
// cancelling ctx releases the underlying network resource.
type StreamingService interface {
	Service
	Stream(ctx context.Context, messages []Message, opts *Options, handler StreamHandler) error
}

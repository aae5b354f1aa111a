// Package llm provides completion clients for the supported model providers.
package llm

import (
	"context"
	"time"

	"github.com/capitalize-ai/rent-assistant/pkg/metrics"
)

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Options configures NewClient.
type Options struct {
	APIKey string
	// Model is used when a request leaves Model empty.
	Model string
	// BaseURL overrides the provider endpoint.
	BaseURL string
}

// NewClient creates an instrumented LLM client for provider. Unknown
// providers fall back to Anthropic.
func NewClient(provider Provider, opts Options) (Client, error) {
	var (
		c   Client
		err error
	)
	switch provider {
	case ProviderOpenAI:
		c, err = NewOpenAIClient(opts.APIKey, opts.BaseURL)
	default:
		c, err = NewAnthropicClient(opts.APIKey, opts.BaseURL)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(c, opts.Model), nil
}

// Instrument wraps c so every call records completion metrics and requests
// without a model use defaultModel.
func Instrument(c Client, defaultModel string) Client {
	return &instrumented{next: c, model: defaultModel}
}

type instrumented struct {
	next  Client
	model string
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" && i.model != "" {
		r := *req
		r.Model = i.model
		req = &r
	}

	start := time.Now()
	resp, err := i.next.Complete(ctx, req)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordCompletion(i.next.Name(), "", "error", elapsed, 0, 0)
		return nil, err
	}
	metrics.RecordCompletion(i.next.Name(), resp.Model, "success", elapsed, resp.TokensIn, resp.TokensOut)
	return resp, nil
}

// splitSystem separates system messages from the conversation turns.
func splitSystem(msgs []ChatMessage) (system []string, turns []ChatMessage) {
	for _, m := range msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}

// Package service implements the assistant: intent dispatch, thread routing,
// delegation to specialized agents and tenant risk checks.
package service

import (
	"context"
	"errors"

	"github.com/capitalize-ai/rent-assistant/internal/llm"
	"github.com/capitalize-ai/rent-assistant/internal/model"
)

var (
	// ErrThreadNotFound is returned for unknown threads or threads owned by
	// another account.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrEmptyConversation means a delegated thread's last message had no
	// content.
	ErrEmptyConversation = errors.New("conversation with service agent was empty")
)

// Completer runs a language-model completion. llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// MessageJournal records appended messages.
type MessageJournal interface {
	PublishMessage(ctx context.Context, msg *model.Message) (uint64, error)
}

// EventPublisher emits runtime events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *model.ThreadEvent) (uint64, error)
}

// AgentRunner starts a specialized agent on a delegated thread.
type AgentRunner interface {
	PublishAgentRun(ctx context.Context, run *model.AgentRun) (uint64, error)
}

// toChat converts thread history to completion messages, dropping empty
// entries.
func toChat(prompt string, history []model.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(history)+1)
	out = append(out, llm.ChatMessage{Role: llm.RoleSystem, Content: prompt})
	for _, m := range history {
		if m.Content == "" {
			continue
		}
		out = append(out, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

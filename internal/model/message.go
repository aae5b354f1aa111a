package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message is a single entry in a thread. Messages are never edited once
// appended.
type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AccountID string    `json:"account_id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Sequence is the 1-based position in the thread.
	Sequence uint64 `json:"sequence"`
}

// SendMessageRequest is the request to append a message to a thread.
type SendMessageRequest struct {
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content"`
}

// SendMessageResponse returns the appended message and any replies the
// router posted while handling it.
type SendMessageResponse struct {
	Message *Message  `json:"message"`
	Replies []Message `json:"replies"`
	Path    string    `json:"path"`
}

// ListMessagesResponse is the response for listing messages.
type ListMessagesResponse struct {
	Messages     []Message `json:"messages"`
	HasMore      bool      `json:"has_more"`
	LastSequence uint64    `json:"last_sequence"`
}

// ChatRequest is the single-turn chat request body.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the single-turn chat response body.
type ChatResponse struct {
	Response string `json:"response"`
}

package model

import (
	"time"
)

// EventType represents the type of runtime event.
type EventType string

const (
	EventTypeAwaitingUser  EventType = "awaiting_user_input"
	EventTypeAwaitingAgent EventType = "awaiting_agent_input"
	EventTypeAgentRun      EventType = "agent_run"
	EventTypeReminder      EventType = "rent_reminder"
	EventTypeError         EventType = "error"
)

// ThreadEvent is a runtime signal about a thread.
type ThreadEvent struct {
	ID        string            `json:"id"`
	ThreadID  string            `json:"thread_id"`
	AccountID string            `json:"account_id,omitempty"`
	Type      EventType         `json:"type"`
	Reason    string            `json:"reason,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// AgentRun asks a specialized agent to work a delegated thread.
type AgentRun struct {
	ID             string    `json:"id"`
	Agent          string    `json:"agent"`
	Query          string    `json:"query"`
	ThreadID       string    `json:"thread_id"`
	ParentThreadID string    `json:"parent_thread_id"`
	CreatedAt      time.Time `json:"created_at"`
}

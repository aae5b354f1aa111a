// Package model defines data structures for the rent assistant.
package model

import (
	"time"
)

// MetadataParentID is the thread metadata key linking a delegated
// sub-agent thread to the thread that spawned it.
const MetadataParentID = "parent_id"

// MetadataAgent names the agent a delegated thread was opened for.
const MetadataAgent = "agent"

// Thread is an ordered conversation.
type Thread struct {
	ID           string            `json:"id"`
	AccountID    string            `json:"account_id"`
	UserID       string            `json:"user_id"`
	Title        string            `json:"title"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	MessageCount int               `json:"message_count,omitempty"`
	LastMessage  *Message          `json:"last_message,omitempty"`
}

// ParentID returns the parent thread reference, or "" for a top-level thread.
func (t *Thread) ParentID() string {
	if t == nil || t.Metadata == nil {
		return ""
	}
	return t.Metadata[MetadataParentID]
}

// IsDelegated reports whether the thread is a sub-agent conversation.
func (t *Thread) IsDelegated() bool {
	return t.ParentID() != ""
}

// CreateThreadRequest is the request to create a new thread.
type CreateThreadRequest struct {
	Title    string            `json:"title"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ListThreadsResponse is the response for listing threads.
type ListThreadsResponse struct {
	Threads []Thread `json:"threads"`
	Total   int      `json:"total"`
	HasMore bool     `json:"has_more"`
}

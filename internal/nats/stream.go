package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/rent-assistant/internal/model"
)

const (
	// StreamName is the name of the threads stream.
	StreamName = "RENT_THREADS"

	// SubjectPrefix is the prefix for all thread subjects.
	SubjectPrefix = "rent"

	// AgentSubjectPrefix is the prefix for agent run requests.
	AgentSubjectPrefix = "agents"
)

// StreamManager handles JetStream stream operations.
type StreamManager struct {
	js jetstream.JetStream
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{js: client.JetStream()}
}

// EnsureStream creates the threads stream unless it already exists.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	if _, err := m.js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := m.js.CreateStream(ctx, jetstream.StreamConfig{
		Name: StreamName,
		Subjects: []string{
			SubjectPrefix + ".>",
			AgentSubjectPrefix + ".>",
		},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Rent assistant thread messages, runtime events and agent runs",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// token makes s safe to use as a single subject token.
func token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}

// MessageSubject returns the subject for a message.
func MessageSubject(accountID, threadID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.%s.msg.%s", SubjectPrefix, token(accountID), token(threadID), role)
}

// EventSubject returns the subject for a runtime event.
func EventSubject(accountID, threadID string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s.event.%s", SubjectPrefix, token(accountID), token(threadID), eventType)
}

// ThreadFilter returns the filter subject for everything on a thread.
func ThreadFilter(accountID, threadID string) string {
	return fmt.Sprintf("%s.%s.%s.>", SubjectPrefix, token(accountID), token(threadID))
}

// AgentRunSubject returns the subject a specialized agent consumes runs on.
func AgentRunSubject(agent string) string {
	return fmt.Sprintf("%s.%s.run", AgentSubjectPrefix, token(agent))
}

func (m *StreamManager) publish(ctx context.Context, subject string, v interface{}) (uint64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal %s: %w", subject, err)
	}

	ack, err := m.js.Publish(ctx, subject, data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	return ack.Sequence, nil
}

// PublishMessage journals a thread message.
func (m *StreamManager) PublishMessage(ctx context.Context, msg *model.Message) (uint64, error) {
	return m.publish(ctx, MessageSubject(msg.AccountID, msg.ThreadID, msg.Role), msg)
}

// PublishEvent publishes a runtime event.
func (m *StreamManager) PublishEvent(ctx context.Context, event *model.ThreadEvent) (uint64, error) {
	return m.publish(ctx, EventSubject(event.AccountID, event.ThreadID, event.Type), event)
}

// PublishAgentRun asks the named agent to work a delegated thread.
func (m *StreamManager) PublishAgentRun(ctx context.Context, run *model.AgentRun) (uint64, error) {
	return m.publish(ctx, AgentRunSubject(run.Agent), run)
}

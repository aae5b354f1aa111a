package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
)

// Runtime receives the handoff signals emitted after a thread is handled.
type Runtime interface {
	// RequestUserInput signals that the thread awaits the next user message.
	RequestUserInput(ctx context.Context, thread *model.Thread) error
	// RequestAgentInput signals that the thread awaits a specialized agent.
	RequestAgentInput(ctx context.Context, thread *model.Thread) error
}

// EventRuntime publishes handoff signals as thread events.
type EventRuntime struct {
	events EventPublisher
	logger *logger.Logger
}

// NewEventRuntime creates a runtime publishing to events. With a nil
// publisher signals are only logged.
func NewEventRuntime(events EventPublisher, log *logger.Logger) *EventRuntime {
	if log == nil {
		log = logger.NewNop()
	}
	return &EventRuntime{events: events, logger: log}
}

// RequestUserInput implements Runtime.
func (r *EventRuntime) RequestUserInput(ctx context.Context, thread *model.Thread) error {
	return r.signal(ctx, thread, model.EventTypeAwaitingUser)
}

// RequestAgentInput implements Runtime.
func (r *EventRuntime) RequestAgentInput(ctx context.Context, thread *model.Thread) error {
	return r.signal(ctx, thread, model.EventTypeAwaitingAgent)
}

func (r *EventRuntime) signal(ctx context.Context, thread *model.Thread, typ model.EventType) error {
	r.logger.Debug("runtime signal",
		zap.String("thread_id", thread.ID),
		zap.String("type", string(typ)),
	)
	if r.events == nil {
		return nil
	}

	event := &model.ThreadEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		ThreadID:  thread.ID,
		AccountID: thread.AccountID,
		Type:      typ,
		CreatedAt: time.Now(),
	}
	if parent := thread.ParentID(); parent != "" {
		event.Metadata = map[string]string{model.MetadataParentID: parent}
	}

	_, err := r.events.PublishEvent(ctx, event)
	return err
}

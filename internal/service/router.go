package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/llm"
	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
	"github.com/capitalize-ai/rent-assistant/pkg/metrics"
	"github.com/capitalize-ai/rent-assistant/pkg/tracing"
)

// Path is the processing path chosen for a thread.
type Path string

const (
	UserPath  Path = "user"
	AgentPath Path = "agent"
)

// ReplyEmptyConversation is posted into the parent thread when a delegated
// thread ends with an empty message.
const ReplyEmptyConversation = "Sorry, something went wrong. Conversation with Service Agent was empty."

// Route selects the agent path for delegated threads and the user path
// for everything else.
func Route(thread *model.Thread) Path {
	if thread.IsDelegated() {
		return AgentPath
	}
	return UserPath
}

// ThreadStore is the thread access the router needs. ThreadService
// satisfies it.
type ThreadStore interface {
	Get(ctx context.Context, accountID, threadID string) (*model.Thread, error)
	History(ctx context.Context, accountID, threadID string) ([]model.Message, error)
	Append(ctx context.Context, accountID, threadID string, role model.Role, content string) (*model.Message, error)
	PostReply(ctx context.Context, accountID, threadID, content string) (*model.Message, error)
	CreateChild(ctx context.Context, parent *model.Thread, agent string) (*model.Thread, error)
}

// Outcome describes what handling a thread did.
type Outcome struct {
	Path Path
	// Target is the thread replies were posted into.
	Target string
	// Replies are the messages posted in order.
	Replies []model.Message
	// Delegated is the child thread opened for a specialized agent.
	Delegated *model.Thread
	Halted    bool
}

// Router handles the latest message of a thread and posts the replies.
type Router struct {
	threads    ThreadStore
	dispatcher *Dispatcher
	completer  Completer
	runtime    Runtime
	discovery  Discovery
	agents     AgentRunner
	logger     *logger.Logger
	tracer     trace.Tracer
}

// RouterConfig holds the router's collaborators. Discovery and Agents are
// optional; without them the router never delegates.
type RouterConfig struct {
	Threads    ThreadStore
	Dispatcher *Dispatcher
	Completer  Completer
	Runtime    Runtime
	Discovery  Discovery
	Agents     AgentRunner
	Logger     *logger.Logger
}

// NewRouter creates a router.
func NewRouter(cfg RouterConfig) *Router {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	rt := cfg.Runtime
	if rt == nil {
		rt = NewEventRuntime(nil, log)
	}
	return &Router{
		threads:    cfg.Threads,
		dispatcher: cfg.Dispatcher,
		completer:  cfg.Completer,
		runtime:    rt,
		discovery:  cfg.Discovery,
		agents:     cfg.Agents,
		logger:     log,
		tracer:     tracing.Tracer("rent-assistant/service"),
	}
}

// Handle processes thread's latest message on the path Route selects.
func (r *Router) Handle(ctx context.Context, thread *model.Thread) (*Outcome, error) {
	path := Route(thread)

	ctx, span := r.tracer.Start(ctx, "router.Handle", trace.WithAttributes(
		attribute.String("thread_id", thread.ID),
		attribute.String("path", string(path)),
	))
	defer span.End()

	var (
		out *Outcome
		err error
	)
	if path == AgentPath {
		out, err = r.handleAgent(ctx, thread)
	} else {
		out, err = r.handleUser(ctx, thread)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.RepliesTotal.WithLabelValues(string(path)).Add(float64(len(out.Replies)))
	return out, nil
}

func (r *Router) handleUser(ctx context.Context, thread *model.Thread) (*Outcome, error) {
	history, err := r.threads.History(ctx, thread.AccountID, thread.ID)
	if err != nil {
		return nil, err
	}
	message := lastContent(history)

	out := &Outcome{Path: UserPath, Target: thread.ID}

	if r.discovery != nil && r.agents != nil {
		if agent, ok := r.discovery.Discover(ctx, message); ok {
			return r.delegate(ctx, thread, agent, message, out)
		}
	}

	reply := r.dispatcher.Dispatch(ctx, Request{Message: message, History: history})
	out.Halted = reply.Halted

	if err := r.post(ctx, thread, reply.Text, out); err != nil {
		return nil, err
	}
	r.signalUser(ctx, thread)
	return out, nil
}

func (r *Router) delegate(ctx context.Context, thread *model.Thread, agent, query string, out *Outcome) (*Outcome, error) {
	r.logger.Info("delegating to agent",
		zap.String("thread_id", thread.ID),
		zap.String("agent", agent),
	)

	if err := r.post(ctx, thread, "Calling specialized agent: "+agent, out); err != nil {
		return nil, err
	}

	child, err := r.threads.CreateChild(ctx, thread, agent)
	if err != nil {
		return nil, fmt.Errorf("failed to create delegated thread: %w", err)
	}
	if _, err := r.threads.Append(ctx, child.AccountID, child.ID, model.RoleUser, query); err != nil {
		return nil, fmt.Errorf("failed to seed delegated thread: %w", err)
	}
	out.Delegated = child

	run := &model.AgentRun{
		ID:             uuid.Must(uuid.NewV7()).String(),
		Agent:          agent,
		Query:          query,
		ThreadID:       child.ID,
		ParentThreadID: thread.ID,
		CreatedAt:      time.Now(),
	}
	if _, err := r.agents.PublishAgentRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to start agent %s: %w", agent, err)
	}

	if err := r.runtime.RequestAgentInput(ctx, child); err != nil {
		r.logger.Warn("failed to signal agent input", zap.String("thread_id", child.ID), zap.Error(err))
	}
	return out, nil
}

func (r *Router) handleAgent(ctx context.Context, sub *model.Thread) (*Outcome, error) {
	parent, err := r.threads.Get(ctx, sub.AccountID, sub.ParentID())
	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return nil, fmt.Errorf("parent of thread %s: %w", sub.ID, err)
		}
		return nil, err
	}

	history, err := r.threads.History(ctx, sub.AccountID, sub.ID)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Path: AgentPath, Target: parent.ID}

	if lastContent(history) == "" {
		r.logger.Warn("delegated thread ended empty",
			zap.String("thread_id", sub.ID),
			zap.Error(ErrEmptyConversation),
		)
		out.Halted = true
		if err := r.post(ctx, parent, ReplyEmptyConversation, out); err != nil {
			return nil, err
		}
		r.signalUser(ctx, parent)
		return out, nil
	}

	var text string
	resp, err := r.completer.Complete(ctx, &llm.CompletionRequest{
		Messages: toChat(AgentPrompt, history),
	})
	if err != nil {
		r.logger.Warn("agent completion failed", zap.String("thread_id", sub.ID), zap.Error(err))
		text = "Error generating response: " + err.Error()
	} else {
		text = resp.Content
	}

	if err := r.post(ctx, parent, text, out); err != nil {
		return nil, err
	}
	r.signalUser(ctx, parent)
	return out, nil
}

func (r *Router) post(ctx context.Context, target *model.Thread, text string, out *Outcome) error {
	msg, err := r.threads.PostReply(ctx, target.AccountID, target.ID, text)
	if err != nil {
		return fmt.Errorf("failed to post reply: %w", err)
	}
	out.Replies = append(out.Replies, *msg)
	return nil
}

func (r *Router) signalUser(ctx context.Context, thread *model.Thread) {
	if err := r.runtime.RequestUserInput(ctx, thread); err != nil {
		r.logger.Warn("failed to signal user input", zap.String("thread_id", thread.ID), zap.Error(err))
	}
}

// lastContent returns the content of the newest message, or "".
func lastContent(history []model.Message) string {
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1].Content
}

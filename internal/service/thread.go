package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
	"github.com/capitalize-ai/rent-assistant/pkg/metrics"
)

// ThreadService owns threads and their messages. Threads are held in
// memory; when a journal is configured every appended message is also
// published to it.
type ThreadService struct {
	journal MessageJournal
	logger  *logger.Logger
	now     func() time.Time

	mu       sync.RWMutex
	threads  map[string]*model.Thread
	messages map[string][]model.Message
}

// NewThreadService creates a thread service. journal may be nil.
func NewThreadService(journal MessageJournal, log *logger.Logger) *ThreadService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ThreadService{
		journal:  journal,
		logger:   log,
		now:      time.Now,
		threads:  make(map[string]*model.Thread),
		messages: make(map[string][]model.Message),
	}
}

// Create creates a new thread.
func (s *ThreadService) Create(ctx context.Context, accountID, userID string, req *model.CreateThreadRequest) (*model.Thread, error) {
	now := s.now()

	t := &model.Thread{
		ID:        uuid.Must(uuid.NewV7()).String(),
		AccountID: accountID,
		UserID:    userID,
		Title:     req.Title,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  copyMetadata(req.Metadata),
	}

	s.mu.Lock()
	s.threads[t.ID] = t
	s.mu.Unlock()

	kind := "user"
	if t.IsDelegated() {
		kind = "delegated"
	}
	metrics.ThreadsTotal.WithLabelValues(kind).Inc()

	s.logger.Info("thread created",
		zap.String("thread_id", t.ID),
		zap.String("account_id", accountID),
		zap.String("parent_id", t.ParentID()),
	)

	out := *t
	return &out, nil
}

// CreateChild opens a delegated thread under parent for agent.
func (s *ThreadService) CreateChild(ctx context.Context, parent *model.Thread, agent string) (*model.Thread, error) {
	return s.Create(ctx, parent.AccountID, parent.UserID, &model.CreateThreadRequest{
		Title: "Delegated to " + agent,
		Metadata: map[string]string{
			model.MetadataParentID: parent.ID,
			model.MetadataAgent:    agent,
		},
	})
}

// Get retrieves a thread by ID.
func (s *ThreadService) Get(ctx context.Context, accountID, threadID string) (*model.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.lookup(accountID, threadID)
	if err != nil {
		return nil, err
	}
	out := *t
	return &out, nil
}

// lookup must be called with s.mu held.
func (s *ThreadService) lookup(accountID, threadID string) (*model.Thread, error) {
	t, ok := s.threads[threadID]
	if !ok || t.AccountID != accountID {
		return nil, ErrThreadNotFound
	}
	return t, nil
}

// List retrieves an account's threads, most recently updated first.
func (s *ThreadService) List(ctx context.Context, accountID string, limit, offset int) (*model.ListThreadsResponse, error) {
	s.mu.RLock()
	var threads []model.Thread
	for _, t := range s.threads {
		if t.AccountID == accountID {
			threads = append(threads, *t)
		}
	}
	s.mu.RUnlock()

	sort.Slice(threads, func(i, j int) bool {
		if threads[i].UpdatedAt.Equal(threads[j].UpdatedAt) {
			return threads[i].ID > threads[j].ID
		}
		return threads[i].UpdatedAt.After(threads[j].UpdatedAt)
	})

	total := len(threads)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &model.ListThreadsResponse{
		Threads: threads[start:end],
		Total:   total,
		HasMore: end < total,
	}, nil
}

// Append adds a message to a thread.
func (s *ThreadService) Append(ctx context.Context, accountID, threadID string, role model.Role, content string) (*model.Message, error) {
	s.mu.Lock()
	t, err := s.lookup(accountID, threadID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	msg := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		ThreadID:  threadID,
		AccountID: accountID,
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
		Sequence:  uint64(len(s.messages[threadID]) + 1),
	}
	s.messages[threadID] = append(s.messages[threadID], msg)

	t.LastMessage = &msg
	t.MessageCount++
	t.UpdatedAt = msg.CreatedAt
	s.mu.Unlock()

	if s.journal != nil {
		if _, err := s.journal.PublishMessage(ctx, &msg); err != nil {
			s.logger.Warn("failed to journal message",
				zap.String("thread_id", threadID),
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}

	return &msg, nil
}

// PostReply appends an assistant message to a thread.
func (s *ThreadService) PostReply(ctx context.Context, accountID, threadID, content string) (*model.Message, error) {
	return s.Append(ctx, accountID, threadID, model.RoleAssistant, content)
}

// History returns every message of a thread in order.
func (s *ThreadService) History(ctx context.Context, accountID, threadID string) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.lookup(accountID, threadID); err != nil {
		return nil, err
	}
	msgs := s.messages[threadID]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Messages pages through a thread's messages after a sequence number.
func (s *ThreadService) Messages(ctx context.Context, accountID, threadID string, afterSequence uint64, limit int) (*model.ListMessagesResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	all, err := s.History(ctx, accountID, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	// Clamp before converting so huge sequences cannot overflow int.
	start := len(all)
	if afterSequence < uint64(len(all)) {
		start = int(afterSequence)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	page := all[start:end]

	resp := &model.ListMessagesResponse{
		Messages:     page,
		HasMore:      end < len(all),
		LastSequence: afterSequence,
	}
	if len(page) > 0 {
		resp.LastSequence = page[len(page)-1].Sequence
	}
	return resp, nil
}

func copyMetadata(md map[string]string) map[string]string {
	if md == nil {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}

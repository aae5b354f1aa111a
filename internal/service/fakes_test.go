package service

import (
	"context"
	"sync"

	"github.com/capitalize-ai/rent-assistant/internal/intent"
	"github.com/capitalize-ai/rent-assistant/internal/llm"
	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/internal/store"
)

// fakeStore is an in-memory store.Store. A non-nil err fails every query.
type fakeStore struct {
	properties []model.Property
	tenants    map[[2]string]int64
	agreements map[int64]*model.RentAgreement
	bookings   map[int64][]model.Booking
	payments   map[int64][]model.Payment
	faqs       []model.FAQ
	overdue    map[int64]int

	err       error
	lookupErr error

	lastFilters *intent.FilterSet
}

func (f *fakeStore) ListProperties(_ context.Context, filters intent.FilterSet) ([]model.Property, error) {
	f.lastFilters = &filters
	return f.properties, f.err
}

func (f *fakeStore) TenantIDByName(_ context.Context, first, last string) (int64, error) {
	if f.lookupErr != nil {
		return 0, f.lookupErr
	}
	id, ok := f.tenants[[2]string{first, last}]
	if !ok {
		return 0, store.ErrNotFound
	}
	return id, nil
}

func (f *fakeStore) RentAgreement(_ context.Context, tenantID int64) (*model.RentAgreement, error) {
	if f.err != nil {
		return nil, f.err
	}
	ra, ok := f.agreements[tenantID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return ra, nil
}

func (f *fakeStore) Bookings(_ context.Context, tenantID int64) ([]model.Booking, error) {
	return f.bookings[tenantID], f.err
}

func (f *fakeStore) Payments(_ context.Context, tenantID int64) ([]model.Payment, error) {
	return f.payments[tenantID], f.err
}

func (f *fakeStore) ListFAQs(context.Context) ([]model.FAQ, error) {
	return f.faqs, f.err
}

func (f *fakeStore) CountAgreements(_ context.Context, tenantID int64, _ string) (int, error) {
	return f.overdue[tenantID], f.err
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

// fakeCompleter records requests and answers with a fixed reply.
type fakeCompleter struct {
	reply    string
	err      error
	requests []*llm.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply, Model: "fake"}, nil
}

type signal struct {
	threadID string
	kind     model.EventType
}

// fakeRuntime records handoff signals.
type fakeRuntime struct {
	signals []signal
}

func (f *fakeRuntime) RequestUserInput(_ context.Context, t *model.Thread) error {
	f.signals = append(f.signals, signal{t.ID, model.EventTypeAwaitingUser})
	return nil
}

func (f *fakeRuntime) RequestAgentInput(_ context.Context, t *model.Thread) error {
	f.signals = append(f.signals, signal{t.ID, model.EventTypeAwaitingAgent})
	return nil
}

// fakeBus implements MessageJournal, EventPublisher and AgentRunner.
type fakeBus struct {
	mu       sync.Mutex
	messages []model.Message
	events   []model.ThreadEvent
	runs     []model.AgentRun
	err      error
}

func (f *fakeBus) PublishMessage(_ context.Context, msg *model.Message) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.messages = append(f.messages, *msg)
	return uint64(len(f.messages)), nil
}

func (f *fakeBus) PublishEvent(_ context.Context, e *model.ThreadEvent) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.events = append(f.events, *e)
	return uint64(len(f.events)), nil
}

func (f *fakeBus) PublishAgentRun(_ context.Context, r *model.AgentRun) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.runs = append(f.runs, *r)
	return uint64(len(f.runs)), nil
}

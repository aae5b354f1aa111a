package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/rent-assistant/internal/model"
)

func TestThreadServiceAccountScoping(t *testing.T) {
	s := NewThreadService(nil, nil)
	ctx := context.Background()

	th, err := s.Create(ctx, "a", "u", &model.CreateThreadRequest{Title: "Lease"})
	require.NoError(t, err)

	_, err = s.Get(ctx, "b", th.ID)
	assert.ErrorIs(t, err, ErrThreadNotFound)

	_, err = s.Append(ctx, "b", th.ID, model.RoleUser, "hi")
	assert.ErrorIs(t, err, ErrThreadNotFound)

	got, err := s.Get(ctx, "a", th.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lease", got.Title)
}

func TestThreadServiceAppendOrdersMessages(t *testing.T) {
	bus := &fakeBus{}
	s := NewThreadService(bus, nil)
	ctx := context.Background()

	th, err := s.Create(ctx, "a", "u", &model.CreateThreadRequest{})
	require.NoError(t, err)

	for _, c := range []string{"one", "two", "three"} {
		_, err := s.Append(ctx, "a", th.ID, model.RoleUser, c)
		require.NoError(t, err)
	}

	history, err := s.History(ctx, "a", th.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, m := range history {
		assert.Equal(t, uint64(i+1), m.Sequence)
	}
	assert.Equal(t, "three", history[2].Content)
	assert.Len(t, bus.messages, 3)

	got, err := s.Get(ctx, "a", th.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.MessageCount)
	require.NotNil(t, got.LastMessage)
	assert.Equal(t, "three", got.LastMessage.Content)
}

func TestThreadServiceJournalFailureIsNotFatal(t *testing.T) {
	s := NewThreadService(&fakeBus{err: errors.New("nats down")}, nil)
	ctx := context.Background()
	th, err := s.Create(ctx, "a", "u", &model.CreateThreadRequest{})
	require.NoError(t, err)

	msg, err := s.Append(ctx, "a", th.ID, model.RoleUser, "hi")

	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Content)
}

func TestThreadServiceMessagesPaging(t *testing.T) {
	s := NewThreadService(nil, nil)
	ctx := context.Background()
	th, err := s.Create(ctx, "a", "u", &model.CreateThreadRequest{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := s.Append(ctx, "a", th.ID, model.RoleUser, "m")
		require.NoError(t, err)
	}

	page, err := s.Messages(ctx, "a", th.ID, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, uint64(2), page.LastSequence)

	page, err = s.Messages(ctx, "a", th.ID, 4, 2)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, uint64(5), page.LastSequence)

	page, err = s.Messages(ctx, "a", th.ID, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.Equal(t, uint64(9), page.LastSequence)

	page, err = s.Messages(ctx, "a", th.ID, math.MaxUint64, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.False(t, page.HasMore)
}

func TestThreadServiceList(t *testing.T) {
	s := NewThreadService(nil, nil)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	ctx := context.Background()

	first, err := s.Create(ctx, "a", "u", &model.CreateThreadRequest{Title: "first"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "a", "u", &model.CreateThreadRequest{Title: "second"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "b", "u", &model.CreateThreadRequest{Title: "other"})
	require.NoError(t, err)
	_, err = s.Append(ctx, "a", first.ID, model.RoleUser, "bump")
	require.NoError(t, err)

	resp, err := s.List(ctx, "a", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.True(t, resp.HasMore)
	require.Len(t, resp.Threads, 1)
	assert.Equal(t, "first", resp.Threads[0].Title, "most recently updated first")
}

func TestThreadServiceCreateChild(t *testing.T) {
	s := NewThreadService(nil, nil)
	ctx := context.Background()
	parent, err := s.Create(ctx, "a", "u", &model.CreateThreadRequest{})
	require.NoError(t, err)

	child, err := s.CreateChild(ctx, parent, "area-guide")

	require.NoError(t, err)
	assert.True(t, child.IsDelegated())
	assert.Equal(t, parent.ID, child.ParentID())
	assert.Equal(t, "a", child.AccountID)
}

func TestThreadServiceCopiesMetadata(t *testing.T) {
	s := NewThreadService(nil, nil)
	md := map[string]string{"k": "v"}
	th, err := s.Create(context.Background(), "a", "u", &model.CreateThreadRequest{Metadata: md})
	require.NoError(t, err)

	md["k"] = "changed"

	got, err := s.Get(context.Background(), "a", th.ID)
	require.NoError(t, err)
	assert.Equal(t, "v", got.Metadata["k"])
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/capitalize-ai/rent-assistant/internal/intent"
	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
)

// countingStore is an in-memory Store that counts listing calls.
type countingStore struct {
	Store
	faqs      []model.FAQ
	props     []model.Property
	err       error
	faqCalls  int
	propCalls int
}

func (s *countingStore) ListFAQs(context.Context) ([]model.FAQ, error) {
	s.faqCalls++
	return s.faqs, s.err
}

func (s *countingStore) ListProperties(context.Context, intent.FilterSet) ([]model.Property, error) {
	s.propCalls++
	return s.props, s.err
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedFAQs(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &countingStore{faqs: []model.FAQ{{Question: "Pets?", Answer: "Cats only."}}}
	c := NewCached(inner, rdb, time.Minute, logger.Wrap(zaptest.NewLogger(t)))
	ctx := context.Background()

	first, err := c.ListFAQs(ctx)
	require.NoError(t, err)
	second, err := c.ListFAQs(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.faqCalls)
	assert.True(t, mr.Exists("rent-assistant:faqs"))

	mr.FastForward(2 * time.Minute)
	_, err = c.ListFAQs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.faqCalls, "expired entry is refetched")
}

func TestCachedEmptyResultsNotStored(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &countingStore{}
	c := NewCached(inner, rdb, time.Minute, nil)

	_, err := c.ListFAQs(context.Background())
	require.NoError(t, err)
	_, err = c.ListFAQs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, inner.faqCalls)
	assert.Empty(t, mr.Keys())
}

func TestCachedPropertiesKeyedByFilters(t *testing.T) {
	_, rdb := setupRedis(t)
	inner := &countingStore{props: []model.Property{{ID: 1, Title: "Loft", Location: "Austin", Bedrooms: 2, Rent: 1200, Available: true}}}
	c := NewCached(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	two := 2
	three := 3
	_, err := c.ListProperties(ctx, intent.FilterSet{Bedrooms: &two})
	require.NoError(t, err)
	got, err := c.ListProperties(ctx, intent.FilterSet{Bedrooms: &two})
	require.NoError(t, err)
	assert.Equal(t, inner.props, got)
	assert.Equal(t, 1, inner.propCalls)

	_, err = c.ListProperties(ctx, intent.FilterSet{Bedrooms: &three})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.propCalls, "different filters miss the cache")
}

func TestCachedInnerErrorPropagates(t *testing.T) {
	_, rdb := setupRedis(t)
	boom := errors.New("db down")
	c := NewCached(&countingStore{err: boom}, rdb, time.Minute, nil)

	_, err := c.ListFAQs(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestCachedRedisDownFallsThrough(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &countingStore{faqs: []model.FAQ{{Question: "Q", Answer: "A"}}}
	c := NewCached(inner, rdb, time.Minute, nil)
	mr.Close()

	faqs, err := c.ListFAQs(context.Background())

	require.NoError(t, err)
	assert.Len(t, faqs, 1)
	assert.Equal(t, 1, inner.faqCalls)
}

func TestCachedInvalidate(t *testing.T) {
	mr, rdb := setupRedis(t)
	inner := &countingStore{faqs: []model.FAQ{{Question: "Q", Answer: "A"}}}
	c := NewCached(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	_, err := c.ListFAQs(ctx)
	require.NoError(t, err)
	require.NoError(t, mr.Set("other:key", "x"))

	require.NoError(t, c.Invalidate(ctx))

	assert.False(t, mr.Exists("rent-assistant:faqs"))
	assert.True(t, mr.Exists("other:key"))
}

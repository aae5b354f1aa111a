package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/rent-assistant/internal/intent"
	"github.com/capitalize-ai/rent-assistant/internal/store"
)

type fakeLookup struct {
	calls [][2]string
	id    int64
	err   error
}

func (f *fakeLookup) TenantIDByName(_ context.Context, first, last string) (int64, error) {
	f.calls = append(f.calls, [2]string{first, last})
	return f.id, f.err
}

func TestResolveDigitToken(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, nil)

	for _, msg := range []string{"rent status 42", "rent status 42.", "booking status for 42?"} {
		id, err := r.Resolve(context.Background(), msg)

		require.NoError(t, err, msg)
		assert.Equal(t, int64(42), id, msg)
	}
	assert.Empty(t, lookup.calls, "numeric IDs never hit the store")
}

func TestResolveByName(t *testing.T) {
	tests := []struct {
		name    string
		message string
		first   string
		last    string
	}{
		{"plain", "rent status Jane Doe", "Jane", "Doe"},
		{"filler words", "what is the booking status for Jane Doe?", "Jane", "Doe"},
		{"extra words ignored", "payment history Jane Doe Smith", "Jane", "Doe"},
		{"keyword case", "RENT AGREEMENT of John Smith", "John", "Smith"},
		{"non-ASCII before keyword", "İstanbul rent status Jane Doe", "Jane", "Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{id: 7}
			r := NewResolver(lookup, nil)

			id, err := r.Resolve(context.Background(), tt.message)

			require.NoError(t, err)
			assert.Equal(t, int64(7), id)
			require.Len(t, lookup.calls, 1)
			assert.Equal(t, [2]string{tt.first, tt.last}, lookup.calls[0])
		})
	}
}

func TestResolveInsufficientInput(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, nil)

	_, err := r.Resolve(context.Background(), "rent status Jane")

	assert.ErrorIs(t, err, ErrInsufficientInput)
	assert.Empty(t, lookup.calls)
}

func TestResolveMissingIdentifier(t *testing.T) {
	r := NewResolver(&fakeLookup{}, nil)

	for _, msg := range []string{"", "   ", "booking status", "rent status 0"} {
		_, err := r.Resolve(context.Background(), msg)
		assert.ErrorIs(t, err, ErrMissingIdentifier, msg)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(&fakeLookup{err: store.ErrNotFound}, nil)

	_, err := r.Resolve(context.Background(), "rent status Jane Doe")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveLookupFailed(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewResolver(&fakeLookup{err: boom}, nil)

	_, err := r.Resolve(context.Background(), "rent status Jane Doe")

	require.ErrorIs(t, err, ErrLookupFailed)
	assert.ErrorIs(t, err, boom)

	var le *LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, boom, le.Reason)
}

func TestResolveUsesClassifierKeywords(t *testing.T) {
	lookup := &fakeLookup{id: 3}
	c := intent.NewClassifier(intent.Rule{Intent: intent.RentStatus, Keywords: []string{"lease for"}})
	r := NewResolver(lookup, c)

	_, err := r.Resolve(context.Background(), "show the lease for Ana Lima")

	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"Ana", "Lima"}}, lookup.calls)
}

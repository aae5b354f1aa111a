package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/capitalize-ai/rent-assistant/internal/model"
)

func TestKeywordDiscovery(t *testing.T) {
	d := NewKeywordDiscovery(map[string]string{
		"mortgage":      "mortgage-agent",
		"mortgage rate": "rates-agent",
		"Neighborhood":  "area-guide",
		"":              "ignored",
	})

	tests := []struct {
		message string
		agent   string
		ok      bool
	}{
		{"what's the current MORTGAGE RATE?", "rates-agent", true},
		{"mortgage options", "mortgage-agent", true},
		{"tell me about the neighborhood", "area-guide", true},
		{"list properties", "", false},
	}

	for _, tt := range tests {
		agent, ok := d.Discover(context.Background(), tt.message)
		assert.Equal(t, tt.ok, ok, tt.message)
		assert.Equal(t, tt.agent, agent, tt.message)
	}
}

func TestKeywordDiscoveryEmpty(t *testing.T) {
	_, ok := NewKeywordDiscovery(nil).Discover(context.Background(), "mortgage")
	assert.False(t, ok)
}

func TestEventRuntime(t *testing.T) {
	bus := &fakeBus{}
	rt := NewEventRuntime(bus, nil)
	th := &model.Thread{ID: "t1", AccountID: "a", Metadata: map[string]string{model.MetadataParentID: "p"}}

	assert.NoError(t, rt.RequestUserInput(context.Background(), th))
	assert.NoError(t, rt.RequestAgentInput(context.Background(), th))

	if assert.Len(t, bus.events, 2) {
		assert.Equal(t, model.EventTypeAwaitingUser, bus.events[0].Type)
		assert.Equal(t, model.EventTypeAwaitingAgent, bus.events[1].Type)
		assert.Equal(t, "p", bus.events[0].Metadata[model.MetadataParentID])
	}

	assert.NoError(t, NewEventRuntime(nil, nil).RequestUserInput(context.Background(), th))
}

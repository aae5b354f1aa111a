package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/capitalize-ai/rent-assistant/internal/model"
)

func TestSubjects(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"message", MessageSubject("acct", "t1", model.RoleUser), "rent.acct.t1.msg.user"},
		{"event", EventSubject("acct", "t1", model.EventTypeAwaitingUser), "rent.acct.t1.event.awaiting_user_input"},
		{"filter", ThreadFilter("acct", "t1"), "rent.acct.t1.>"},
		{"agent run", AgentRunSubject("area-guide"), "agents.area-guide.run"},
		{"empty account", MessageSubject("", "t1", model.RoleAssistant), "rent._.t1.msg.assistant"},
		{"wildcards escaped", AgentRunSubject("a.b*c>d e"), "agents.a_b_c_d_e.run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

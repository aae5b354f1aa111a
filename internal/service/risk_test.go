package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/rent-assistant/internal/model"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		overdue  int
		highRisk bool
		message  string
	}{
		{0, false, "Tenant 5 is in good standing."},
		{2, false, "Tenant 5 is in good standing."},
		{3, true, "High risk of default for tenant 5."},
	}

	for _, tt := range tests {
		st := &fakeStore{overdue: map[int64]int{5: tt.overdue}}
		s := NewRiskService(st, nil, nil)

		a, err := s.Assess(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, tt.highRisk, a.HighRisk)
		assert.Equal(t, tt.message, a.Message)
		assert.Equal(t, tt.overdue, a.Overdue)
	}
}

func TestAssessStoreError(t *testing.T) {
	boom := errors.New("db down")
	s := NewRiskService(&fakeStore{err: boom}, nil, nil)

	_, err := s.Assess(context.Background(), 5)

	assert.ErrorIs(t, err, boom)
}

func TestRemindExplicitDate(t *testing.T) {
	bus := &fakeBus{}
	s := NewRiskService(&fakeStore{}, bus, nil)
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	r, err := s.Remind(context.Background(), "acct", 5, due)

	require.NoError(t, err)
	assert.Equal(t, "Reminder: Rent due on 2024-04-01 for 5. Please pay on time.", r.Message)

	require.Len(t, bus.events, 1)
	ev := bus.events[0]
	assert.Equal(t, model.EventTypeReminder, ev.Type)
	assert.Equal(t, "acct", ev.AccountID)
	assert.Equal(t, r.Message, ev.Reason)
	assert.Equal(t, "5", ev.Metadata["tenant_id"])
}

func TestRemindDefaultsToAgreementDueDate(t *testing.T) {
	s := NewRiskService(seededStore(), nil, nil)

	r, err := s.Remind(context.Background(), "acct", 42, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, "Reminder: Rent due on 2024-03-01 for 42. Please pay on time.", r.Message)
}

func TestRemindWithoutDueDate(t *testing.T) {
	s := NewRiskService(seededStore(), nil, nil)

	_, err := s.Remind(context.Background(), "acct", 99, time.Time{})
	assert.ErrorIs(t, err, ErrNoDueDate)

	_, err = s.Remind(context.Background(), "acct", 7, time.Time{})
	assert.ErrorIs(t, err, ErrNoDueDate, "agreement without a due date")
}

func TestRemindPublishFailure(t *testing.T) {
	s := NewRiskService(&fakeStore{}, &fakeBus{err: errors.New("nats down")}, nil)

	_, err := s.Remind(context.Background(), "acct", 5, time.Now())

	assert.Error(t, err)
}

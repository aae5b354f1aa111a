package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/internal/store"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
)

// HighRiskOverdueThreshold is the overdue agreement count above which a
// tenant is considered likely to default.
const HighRiskOverdueThreshold = 2

// ErrNoDueDate is returned when a reminder has no due date and the tenant
// has no rent agreement to take one from.
var ErrNoDueDate = errors.New("no due date for reminder")

// RiskStore is the store access risk checks need.
type RiskStore interface {
	CountAgreements(ctx context.Context, tenantID int64, status string) (int, error)
	RentAgreement(ctx context.Context, tenantID int64) (*model.RentAgreement, error)
}

// RiskAssessment is the outcome of a default-risk check.
type RiskAssessment struct {
	TenantID int64  `json:"tenant_id"`
	Overdue  int    `json:"overdue_agreements"`
	HighRisk bool   `json:"high_risk"`
	Message  string `json:"message"`
}

// Reminder is a rent reminder sent to a tenant.
type Reminder struct {
	TenantID int64     `json:"tenant_id"`
	DueDate  time.Time `json:"due_date"`
	Message  string    `json:"message"`
}

// RiskService assesses default risk and sends rent reminders.
type RiskService struct {
	store  RiskStore
	events EventPublisher
	logger *logger.Logger
}

// NewRiskService creates a risk service. events may be nil, in which case
// reminders are only logged.
func NewRiskService(st RiskStore, events EventPublisher, log *logger.Logger) *RiskService {
	if log == nil {
		log = logger.NewNop()
	}
	return &RiskService{store: st, events: events, logger: log}
}

// Assess counts the tenant's overdue agreements.
func (s *RiskService) Assess(ctx context.Context, tenantID int64) (*RiskAssessment, error) {
	n, err := s.store.CountAgreements(ctx, tenantID, model.AgreementStatusOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue agreements: %w", err)
	}

	a := &RiskAssessment{TenantID: tenantID, Overdue: n}
	if n > HighRiskOverdueThreshold {
		a.HighRisk = true
		a.Message = fmt.Sprintf("High risk of default for tenant %d.", tenantID)
	} else {
		a.Message = fmt.Sprintf("Tenant %d is in good standing.", tenantID)
	}
	return a, nil
}

// Remind publishes a rent reminder. A zero due date is replaced by the
// tenant's agreement due date.
func (s *RiskService) Remind(ctx context.Context, accountID string, tenantID int64, due time.Time) (*Reminder, error) {
	if due.IsZero() {
		ra, err := s.store.RentAgreement(ctx, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoDueDate
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch rent agreement: %w", err)
		}
		if ra.PaymentDueDate.IsZero() {
			return nil, ErrNoDueDate
		}
		due = ra.PaymentDueDate
	}

	r := &Reminder{
		TenantID: tenantID,
		DueDate:  due,
		Message:  fmt.Sprintf("Reminder: Rent due on %s for %d. Please pay on time.", due.Format(dateLayout), tenantID),
	}

	s.logger.Info("rent reminder",
		zap.Int64("tenant_id", tenantID),
		zap.String("due_date", due.Format(dateLayout)),
	)

	if s.events != nil {
		_, err := s.events.PublishEvent(ctx, &model.ThreadEvent{
			ID:        uuid.Must(uuid.NewV7()).String(),
			AccountID: accountID,
			Type:      model.EventTypeReminder,
			Reason:    r.Message,
			Metadata: map[string]string{
				"tenant_id": strconv.FormatInt(tenantID, 10),
				"due_date":  due.Format(dateLayout),
			},
			CreatedAt: time.Now(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to publish reminder: %w", err)
		}
	}

	return r, nil
}

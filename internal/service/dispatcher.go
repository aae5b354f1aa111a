package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/intent"
	"github.com/capitalize-ai/rent-assistant/internal/llm"
	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/internal/store"
	"github.com/capitalize-ai/rent-assistant/internal/tenant"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
	"github.com/capitalize-ai/rent-assistant/pkg/metrics"
	"github.com/capitalize-ai/rent-assistant/pkg/tracing"
)

// Fixed reply texts.
const (
	ReplyNoProperties   = "No properties found matching your criteria."
	ReplyNoAgreement    = "No rent agreement found."
	ReplyNoBookings     = "No active bookings found."
	ReplyNoPayments     = "No payment history found."
	ReplyNoFAQs         = "No FAQs found."
	ReplyNeedFullName   = "Please provide both first and last name for tenant search."
	ReplyTenantNotFound = "Tenant not found."
)

const dateLayout = "2006-01-02"

// Request is one message to dispatch. History is the thread so far,
// including the message itself, and is only used for general completions.
type Request struct {
	Message string
	History []model.Message
}

// Reply is the outcome of a dispatch. Halted is set when tenant
// identification failed for lack of input and no fallback was attempted.
type Reply struct {
	Text       string
	Intent     intent.Intent
	Halted     bool
	FAQs       []model.FAQ
	Properties []model.Property
}

// Dispatcher answers a message by intent: a store query for the data
// intents, a completion otherwise. Collaborator failures become reply text.
type Dispatcher struct {
	classifier *intent.Classifier
	resolver   *tenant.Resolver
	store      store.Store
	completer  Completer
	logger     *logger.Logger
	tracer     trace.Tracer
}

// NewDispatcher creates a dispatcher over st and c.
func NewDispatcher(st store.Store, c Completer, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	classifier := intent.NewClassifier()
	return &Dispatcher{
		classifier: classifier,
		resolver:   tenant.NewResolver(st, classifier),
		store:      st,
		completer:  c,
		logger:     log,
		tracer:     tracing.Tracer("rent-assistant/service"),
	}
}

// Dispatch classifies req.Message and produces exactly one reply.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Reply {
	in := d.classifier.Classify(req.Message)

	ctx, span := d.tracer.Start(ctx, "dispatcher.Dispatch", trace.WithAttributes(
		attribute.String("intent", string(in)),
	))
	defer span.End()

	metrics.IntentsTotal.WithLabelValues(string(in)).Inc()
	d.logger.Debug("intent classified", zap.String("intent", string(in)))

	var reply Reply
	switch in {
	case intent.ListProperties:
		reply = d.listProperties(ctx, req.Message)
	case intent.RentStatus, intent.BookingStatus, intent.PaymentHistory:
		reply = d.tenantQuery(ctx, in, req.Message)
	case intent.Faq:
		reply = d.faqs(ctx)
	default:
		reply = d.general(ctx, req)
	}
	reply.Intent = in

	if reply.Halted {
		span.SetAttributes(attribute.Bool("halted", true))
	}
	return reply
}

func (d *Dispatcher) listProperties(ctx context.Context, message string) Reply {
	filters := intent.ExtractFilters(message)

	props, err := d.store.ListProperties(ctx, filters)
	if err != nil {
		return d.failed(ctx, "fetching properties", err)
	}
	if len(props) == 0 {
		return Reply{Text: ReplyNoProperties}
	}
	return Reply{Text: FormatProperties(props), Properties: props}
}

func (d *Dispatcher) tenantQuery(ctx context.Context, in intent.Intent, message string) Reply {
	id, err := d.resolver.Resolve(ctx, message)
	if err != nil {
		d.logger.Warn("tenant resolution failed", zap.String("intent", string(in)), zap.Error(err))

		var le *tenant.LookupError
		switch {
		case errors.Is(err, tenant.ErrMissingIdentifier), errors.Is(err, tenant.ErrInsufficientInput):
			return Reply{Text: ReplyNeedFullName, Halted: true}
		case errors.Is(err, tenant.ErrNotFound):
			return Reply{Text: ReplyTenantNotFound}
		case errors.As(err, &le):
			return Reply{Text: "Error fetching tenant: " + le.Reason.Error()}
		default:
			return Reply{Text: "Error fetching tenant: " + err.Error()}
		}
	}

	switch in {
	case intent.RentStatus:
		return d.rentStatus(ctx, id)
	case intent.BookingStatus:
		return d.bookingStatus(ctx, id)
	default:
		return d.paymentHistory(ctx, id)
	}
}

func (d *Dispatcher) rentStatus(ctx context.Context, tenantID int64) Reply {
	ra, err := d.store.RentAgreement(ctx, tenantID)
	if errors.Is(err, store.ErrNotFound) {
		return Reply{Text: ReplyNoAgreement}
	}
	if err != nil {
		return d.failed(ctx, "fetching rent status", err)
	}

	text := fmt.Sprintf("Tenant %d has rent status: %s", tenantID, ra.Status)
	if !ra.PaymentDueDate.IsZero() {
		text += ", due on " + ra.PaymentDueDate.Format(dateLayout)
	}
	return Reply{Text: text + "."}
}

func (d *Dispatcher) bookingStatus(ctx context.Context, tenantID int64) Reply {
	bookings, err := d.store.Bookings(ctx, tenantID)
	if err != nil {
		return d.failed(ctx, "fetching booking status", err)
	}
	if len(bookings) == 0 {
		return Reply{Text: ReplyNoBookings}
	}
	return Reply{Text: "Booking status: " + bookings[0].Status}
}

func (d *Dispatcher) paymentHistory(ctx context.Context, tenantID int64) Reply {
	payments, err := d.store.Payments(ctx, tenantID)
	if err != nil {
		return d.failed(ctx, "fetching payment history", err)
	}
	if len(payments) == 0 {
		return Reply{Text: ReplyNoPayments}
	}

	latest := payments[len(payments)-1]
	text := fmt.Sprintf("Latest payment: %d %s", latest.Amount, latest.Status)
	if !latest.Date.IsZero() {
		text += " on " + latest.Date.Format(dateLayout)
	}
	return Reply{Text: text}
}

func (d *Dispatcher) faqs(ctx context.Context) Reply {
	faqs, err := d.store.ListFAQs(ctx)
	if err != nil {
		return d.failed(ctx, "fetching FAQs", err)
	}
	if len(faqs) == 0 {
		return Reply{Text: ReplyNoFAQs}
	}
	return Reply{Text: FormatFAQs(faqs), FAQs: faqs}
}

func (d *Dispatcher) general(ctx context.Context, req Request) Reply {
	history := req.History
	if len(history) == 0 {
		history = []model.Message{{Role: model.RoleUser, Content: req.Message}}
	}

	resp, err := d.completer.Complete(ctx, &llm.CompletionRequest{
		Messages: toChat(UserPrompt, history),
	})
	if err != nil {
		return d.failed(ctx, "generating response", err)
	}
	return Reply{Text: resp.Content}
}

// failed turns a collaborator error into the reply "Error <action>: <reason>".
func (d *Dispatcher) failed(ctx context.Context, action string, err error) Reply {
	d.logger.Warn("collaborator call failed", zap.String("action", action), zap.Error(err))

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, action)

	return Reply{Text: fmt.Sprintf("Error %s: %v", action, err)}
}

// FormatProperties renders listings one per line.
func FormatProperties(props []model.Property) string {
	lines := make([]string, len(props))
	for i, p := range props {
		avail := "available"
		if !p.Available {
			avail = "unavailable"
		}
		lines[i] = fmt.Sprintf("%s (%s): %d bedrooms, rent %d, %s", p.Title, p.Location, p.Bedrooms, p.Rent, avail)
	}
	return strings.Join(lines, "\n")
}

// FormatFAQs renders question and answer pairs separated by blank lines.
func FormatFAQs(faqs []model.FAQ) string {
	blocks := make([]string, len(faqs))
	for i, f := range faqs {
		blocks[i] = "Q: " + f.Question + "\nA: " + f.Answer
	}
	return strings.Join(blocks, "\n\n")
}

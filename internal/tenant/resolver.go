// Package tenant resolves a tenant identifier from free text, either as a
// trailing numeric ID or as a first/last name pair looked up in the store.
package tenant

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/capitalize-ai/rent-assistant/internal/intent"
	"github.com/capitalize-ai/rent-assistant/internal/store"
)

var (
	// ErrMissingIdentifier means the message carried no identifier at all.
	ErrMissingIdentifier = errors.New("tenant identifier missing")
	// ErrInsufficientInput means a name was given without a last name.
	ErrInsufficientInput = errors.New("need both first and last name")
	// ErrNotFound means no tenant matched the name.
	ErrNotFound = errors.New("tenant not found")
	// ErrLookupFailed means the store failed while looking the name up.
	ErrLookupFailed = errors.New("tenant lookup failed")
)

// LookupError carries the store failure behind ErrLookupFailed.
type LookupError struct {
	Reason error
}

func (e *LookupError) Error() string {
	return "tenant lookup failed: " + e.Reason.Error()
}

func (e *LookupError) Unwrap() error { return e.Reason }

// Is lets errors.Is match ErrLookupFailed.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailed
}

// Lookup finds a tenant ID by exact name. It returns store.ErrNotFound when
// nobody matches.
type Lookup interface {
	TenantIDByName(ctx context.Context, firstName, lastName string) (int64, error)
}

// leading words dropped from a name run, e.g. "rent status for Jane Doe".
var fillers = map[string]bool{
	"for": true, "of": true, "tenant": true, "is": true, "the": true, "my": true, "named": true,
}

// Resolver resolves tenant identifiers. It does not cache results.
type Resolver struct {
	lookup  Lookup
	anchors []string
}

// NewResolver returns a resolver whose name runs start after the keywords c
// assigns to the tenant-scoped intents. A nil c uses the default rules.
func NewResolver(lookup Lookup, c *intent.Classifier) *Resolver {
	if c == nil {
		c = intent.NewClassifier()
	}
	var anchors []string
	for _, in := range []intent.Intent{intent.RentStatus, intent.BookingStatus, intent.PaymentHistory} {
		anchors = append(anchors, c.Keywords(in)...)
	}
	return &Resolver{lookup: lookup, anchors: anchors}
}

// Resolve returns the tenant ID named by message.
//
// A trailing all-digit token is the ID itself. Otherwise the words after the
// intent keyword are treated as a name; the first two are looked up as first
// and last name.
func (r *Resolver) Resolve(ctx context.Context, message string) (int64, error) {
	tokens := strings.Fields(message)
	if len(tokens) == 0 {
		return 0, ErrMissingIdentifier
	}

	last := strings.TrimFunc(tokens[len(tokens)-1], unicode.IsPunct)
	if isDigits(last) {
		id, err := strconv.ParseInt(last, 10, 64)
		if err != nil || id <= 0 {
			return 0, ErrMissingIdentifier
		}
		return id, nil
	}

	parts := r.nameParts(message)
	switch len(parts) {
	case 0:
		return 0, ErrMissingIdentifier
	case 1:
		return 0, ErrInsufficientInput
	}

	id, err := r.lookup.TenantIDByName(ctx, parts[0], parts[1])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, &LookupError{Reason: err}
	}
	return id, nil
}

// nameParts returns the cleaned words after the last intent keyword, or of
// the whole message when no keyword is present.
func (r *Resolver) nameParts(message string) []string {
	run := message
	cut := -1
	for _, a := range r.anchors {
		if i := intent.LastIndexFold(message, a); i >= 0 && i+len(a) > cut {
			cut = i + len(a)
		}
	}
	if cut >= 0 {
		run = message[cut:]
	}

	var parts []string
	for _, w := range strings.Fields(run) {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if w == "" {
			continue
		}
		if len(parts) == 0 && fillers[strings.ToLower(w)] {
			continue
		}
		parts = append(parts, w)
	}
	return parts
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

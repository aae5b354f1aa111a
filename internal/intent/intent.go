// Package intent classifies assistant messages and extracts listing filters
// from free text. Matching is plain case-insensitive substring search.
package intent

import (
	"strings"
)

// Intent is the classified purpose of a message.
type Intent string

const (
	ListProperties Intent = "list_properties"
	RentStatus     Intent = "rent_status"
	BookingStatus  Intent = "booking_status"
	PaymentHistory Intent = "payment_history"
	Faq            Intent = "faq"
	General        Intent = "general"
)

// TenantScoped reports whether answering the intent needs a tenant identifier.
func (i Intent) TenantScoped() bool {
	switch i {
	case RentStatus, BookingStatus, PaymentHistory:
		return true
	}
	return false
}

// Rule maps a set of keywords to an intent. A rule matches when any of its
// keywords occurs in the lower-cased message.
type Rule struct {
	Intent   Intent
	Keywords []string
}

func (r Rule) match(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DefaultRules is the priority-ordered rule table. Earlier rules win, so
// more specific phrases must come before general ones.
var DefaultRules = []Rule{
	{Intent: ListProperties, Keywords: []string{"available properties", "list properties", "vacant", "rentals"}},
	{Intent: RentStatus, Keywords: []string{"rent status", "rent agreement"}},
	{Intent: BookingStatus, Keywords: []string{"booking status"}},
	{Intent: PaymentHistory, Keywords: []string{"payment history"}},
	{Intent: Faq, Keywords: []string{"faqs", "faq", "questions"}},
}

// Classifier selects one intent per message. It holds no mutable state.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules, or DefaultRules when none
// are given.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the intent of the first matching rule, or General.
func (c *Classifier) Classify(message string) Intent {
	lower := strings.ToLower(message)
	for _, r := range c.rules {
		if r.match(lower) {
			return r.Intent
		}
	}
	return General
}

// Keywords returns the keywords of the rule for in, in table order.
func (c *Classifier) Keywords(in Intent) []string {
	for _, r := range c.rules {
		if r.Intent == in {
			return r.Keywords
		}
	}
	return nil
}

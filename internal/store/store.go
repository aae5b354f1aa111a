// Package store provides access to the rental data store.
package store

import (
	"context"
	"errors"

	"github.com/capitalize-ai/rent-assistant/internal/intent"
	"github.com/capitalize-ai/rent-assistant/internal/model"
)

// ErrNotFound is returned when a single-record lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Store is the set of queries the assistant runs against the data store.
type Store interface {
	// ListProperties applies equality filters on location and bedrooms and
	// a range filter on rent.
	ListProperties(ctx context.Context, filters intent.FilterSet) ([]model.Property, error)

	// TenantIDByName looks a tenant up by exact first and last name.
	TenantIDByName(ctx context.Context, firstName, lastName string) (int64, error)

	// RentAgreement returns the tenant's agreement or ErrNotFound.
	RentAgreement(ctx context.Context, tenantID int64) (*model.RentAgreement, error)

	// Bookings returns the tenant's bookings, possibly none.
	Bookings(ctx context.Context, tenantID int64) ([]model.Booking, error)

	// Payments returns the tenant's payments, oldest first.
	Payments(ctx context.Context, tenantID int64) ([]model.Payment, error)

	// ListFAQs returns every FAQ entry.
	ListFAQs(ctx context.Context) ([]model.FAQ, error)

	// CountAgreements counts the tenant's agreements in the given status.
	CountAgreements(ctx context.Context, tenantID int64, status string) (int, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

package model

import (
	"time"
)

// Property is a rental listing.
type Property struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	Bedrooms  int    `json:"bedrooms"`
	Rent      int    `json:"rent"`
	Available bool   `json:"available"`
}

// Tenant is a renter.
type Tenant struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RentAgreement is a tenant's rent status. PaymentDueDate is zero when the
// stored value is missing.
type RentAgreement struct {
	TenantID       int64     `json:"tenant_id"`
	Status         string    `json:"status"`
	PaymentDueDate time.Time `json:"payment_due_date"`
}

// Booking is a viewing or reservation.
type Booking struct {
	TenantID int64  `json:"tenant_id"`
	Status   string `json:"status"`
}

// Payment is a single rent payment. Date is zero when unknown.
type Payment struct {
	Amount int64     `json:"amount"`
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
}

// FAQ is a question and its answer.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AgreementStatusOverdue marks an agreement with missed payments.
const AgreementStatusOverdue = "Overdue"

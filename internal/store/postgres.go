package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/capitalize-ai/rent-assistant/internal/intent"
	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/pkg/metrics"
)

// Postgres implements Store on a PostgreSQL database.
type Postgres struct {
	db *sql.DB
}

// PostgresConfig holds pool settings for OpenPostgres.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// OpenPostgres opens a lib/pq connection pool.
func OpenPostgres(cfg PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Ping tests the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the pool.
func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func observe(query string, start time.Time, err error) {
	metrics.RecordStoreQuery(query, err, time.Since(start).Seconds())
}

// ListProperties returns matching listings ordered by id.
func (p *Postgres) ListProperties(ctx context.Context, f intent.FilterSet) (props []model.Property, err error) {
	start := time.Now()
	defer func() { observe("list_properties", start, err) }()

	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, v interface{}) {
		args = append(args, v)
		where = append(where, clause+" $"+strconv.Itoa(len(args)))
	}

	if f.Location != nil {
		add("location =", *f.Location)
	}
	if f.Bedrooms != nil {
		add("bedrooms =", *f.Bedrooms)
	}
	if f.Rent != nil {
		if f.Rent.GTE != nil {
			add("rent >=", *f.Rent.GTE)
		}
		if f.Rent.LTE != nil {
			add("rent <=", *f.Rent.LTE)
		}
	}

	query := `SELECT id, title, location, bedrooms, rent, available FROM properties`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var prop model.Property
		if err = rows.Scan(&prop.ID, &prop.Title, &prop.Location, &prop.Bedrooms, &prop.Rent, &prop.Available); err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	err = rows.Err()
	return props, err
}

// TenantIDByName returns the single tenant with the given name. More than
// one match is an error.
func (p *Postgres) TenantIDByName(ctx context.Context, firstName, lastName string) (id int64, err error) {
	start := time.Now()
	defer func() { observe("tenant_by_name", start, err) }()

	rows, err := p.db.QueryContext(ctx,
		`SELECT id FROM tenants WHERE first_name = $1 AND last_name = $2 LIMIT 2`,
		firstName, lastName,
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var v int64
		if err = rows.Scan(&v); err != nil {
			return 0, err
		}
		ids = append(ids, v)
	}
	if err = rows.Err(); err != nil {
		return 0, err
	}

	switch len(ids) {
	case 0:
		return 0, ErrNotFound
	case 1:
		return ids[0], nil
	default:
		err = fmt.Errorf("multiple tenants named %s %s", firstName, lastName)
		return 0, err
	}
}

// RentAgreement returns the tenant's rent agreement.
func (p *Postgres) RentAgreement(ctx context.Context, tenantID int64) (_ *model.RentAgreement, err error) {
	start := time.Now()
	defer func() { observe("rent_agreement", start, err) }()

	var (
		ra  model.RentAgreement
		due sql.NullTime
	)
	err = p.db.QueryRowContext(ctx,
		`SELECT tenant_id, status, payment_due_date FROM rentagreements WHERE tenant_id = $1 LIMIT 1`,
		tenantID,
	).Scan(&ra.TenantID, &ra.Status, &due)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if due.Valid {
		ra.PaymentDueDate = due.Time
	}
	return &ra, nil
}

// Bookings returns the tenant's bookings in insertion order.
func (p *Postgres) Bookings(ctx context.Context, tenantID int64) (bookings []model.Booking, err error) {
	start := time.Now()
	defer func() { observe("bookings", start, err) }()

	rows, err := p.db.QueryContext(ctx,
		`SELECT tenant_id, status FROM bookings WHERE tenant_id = $1 ORDER BY id`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b model.Booking
		if err = rows.Scan(&b.TenantID, &b.Status); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	err = rows.Err()
	return bookings, err
}

// Payments returns the tenant's payments, oldest first.
func (p *Postgres) Payments(ctx context.Context, tenantID int64) (payments []model.Payment, err error) {
	start := time.Now()
	defer func() { observe("payments", start, err) }()

	rows, err := p.db.QueryContext(ctx,
		`SELECT amount, status, date FROM payments WHERE tenant_id = $1 ORDER BY date ASC NULLS FIRST, id ASC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pm   model.Payment
			date sql.NullTime
		)
		if err = rows.Scan(&pm.Amount, &pm.Status, &date); err != nil {
			return nil, err
		}
		if date.Valid {
			pm.Date = date.Time
		}
		payments = append(payments, pm)
	}
	err = rows.Err()
	return payments, err
}

// ListFAQs returns all FAQs in insertion order.
func (p *Postgres) ListFAQs(ctx context.Context) (faqs []model.FAQ, err error) {
	start := time.Now()
	defer func() { observe("faqs", start, err) }()

	rows, err := p.db.QueryContext(ctx, `SELECT question, answer FROM faqs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var f model.FAQ
		if err = rows.Scan(&f.Question, &f.Answer); err != nil {
			return nil, err
		}
		faqs = append(faqs, f)
	}
	err = rows.Err()
	return faqs, err
}

// CountAgreements counts the tenant's agreements with the given status.
func (p *Postgres) CountAgreements(ctx context.Context, tenantID int64, status string) (n int, err error) {
	start := time.Now()
	defer func() { observe("count_agreements", start, err) }()

	err = p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rentagreements WHERE tenant_id = $1 AND status = $2`,
		tenantID, status,
	).Scan(&n)
	return n, err
}

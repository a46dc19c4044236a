// Package repository implements ports.HostelStore on PostgreSQL. Every
// notification it stores is also written to outbox_events for the relay.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

// NotificationEventType is the outbox event_type used for notifications.
const NotificationEventType = "hostel.notifications"

type SQLRepository struct {
	db *sql.DB

	eventType         string
	monthlyFee        float64
	notificationLimit int
	nowFn             func() time.Time
	newID             func() string
	cb                *gobreaker.CircuitBreaker
}

var _ ports.HostelStore = (*SQLRepository)(nil)

type Option func(*SQLRepository)

// WithEventType sets the outbox event_type; the relay publishes rows of this
// type to the queue of the same name.
func WithEventType(t string) Option {
	return func(r *SQLRepository) { r.eventType = t }
}

func WithMonthlyFee(amount float64) Option {
	return func(r *SQLRepository) { r.monthlyFee = amount }
}

func WithNotificationLimit(n int) Option {
	return func(r *SQLRepository) { r.notificationLimit = n }
}

func WithClock(now func() time.Time) Option {
	return func(r *SQLRepository) { r.nowFn = now }
}

// WithBreaker guards Ping with cb so readiness probes stop hitting a
// database that is down.
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(r *SQLRepository) { r.cb = cb }
}

func NewSQLRepository(db *sql.DB, opts ...Option) *SQLRepository {
	r := &SQLRepository{
		db:                db,
		eventType:         NotificationEventType,
		monthlyFee:        domain.DefaultMonthlyFee,
		notificationLimit: 500,
		nowFn:             time.Now,
		newID:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Migrate creates the schema if it does not exist yet.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (r *SQLRepository) Backend() string { return "postgres" }

func (r *SQLRepository) Ping(ctx context.Context) error {
	if r.cb == nil {
		return r.db.PingContext(ctx)
	}
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.db.PingContext(ctx)
	})
	return err
}

// SeedDemoUsers inserts the demo staff accounts unless their emails exist.
func (r *SQLRepository) SeedDemoUsers(ctx context.Context, users []domain.User) (int, error) {
	added := 0
	for _, u := range users {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO users (id, name, email, password, role, avatar)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT DO NOTHING`,
			u.ID, u.Name, u.Email, domain.DefaultPassword, string(u.Role), u.Avatar)
		if err != nil {
			return added, fmt.Errorf("seed %s: %w", u.Email, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}

func (r *SQLRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// notify stores a notification and its outbox event in tx.
func (r *SQLRepository) notify(ctx context.Context, tx *sql.Tx, now time.Time, title, message string, roles ...domain.Role) error {
	n := domain.Notification{
		ID:         r.newID(),
		Title:      title,
		Message:    message,
		Timestamp:  now,
		TargetRole: roles,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO notifications (id, title, message, timestamp, is_read, target_roles)
		 VALUES ($1, $2, $3, $4, FALSE, $5)`,
		n.ID, n.Title, n.Message, n.Timestamp, pq.Array(roleStrings(roles))); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	payload, err := json.Marshal(ports.NewNotificationEvent(n))
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, event_type, payload) VALUES ($1, $2, $3)`,
		r.newID(), r.eventType, payload); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	if r.notificationLimit > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM notifications WHERE id NOT IN (
				SELECT id FROM notifications ORDER BY seq DESC LIMIT $1)`,
			r.notificationLimit); err != nil {
			return fmt.Errorf("trim notifications: %w", err)
		}
	}
	return nil
}

func roleStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(kind, id)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(kind, id)
	}
	return nil
}

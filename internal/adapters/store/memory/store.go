// Package memory implements ports.HostelStore entirely in process memory. It
// is the default backend and the base that the sqlite backend snapshots.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

var _ ports.HostelStore = (*Store)(nil)

// DefaultNotificationLimit bounds the notification list; the oldest entries
// are dropped first.
const DefaultNotificationLimit = 500

type Store struct {
	mu    sync.RWMutex
	state state

	latency           time.Duration
	notificationLimit int
	monthlyFee        float64
	nowFn             func() time.Time
	newID             func() string
	publisher         ports.NotificationPublisher
	commit            func(context.Context) error
	logger            *zap.Logger
}

type Option func(*Store)

// WithLatency delays every call by d before it touches the state.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithNotificationLimit caps the number of retained notifications. Values
// below one disable the cap.
func WithNotificationLimit(n int) Option {
	return func(s *Store) { s.notificationLimit = n }
}

func WithMonthlyFee(amount float64) Option {
	return func(s *Store) { s.monthlyFee = amount }
}

// WithPublisher fans every emitted notification out through p after the
// mutation has been applied.
func WithPublisher(p ports.NotificationPublisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithCommitHook registers fn to run after every successful mutation, outside
// the store lock. The in-memory state stays authoritative: an error from fn
// is logged and the mutation still succeeds and publishes. Hooks are expected
// to write the whole state, so the next successful run catches up.
func WithCommitHook(fn func(context.Context) error) Option {
	return func(s *Store) { s.commit = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(opts ...Option) *Store {
	s := &Store{
		state:             newState(),
		notificationLimit: DefaultNotificationLimit,
		monthlyFee:        domain.DefaultMonthlyFee,
		nowFn:             time.Now,
		newID:             uuid.NewString,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Backend() string { return "memory" }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// wait simulates a network round trip.
func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

// txn is the view a mutation gets of the store. Notifications raised through
// it are stored with the mutation and published once it has been committed.
type txn struct {
	*state
	now     time.Time
	newID   func() string
	emitted []domain.Notification
}

func (t *txn) notify(title, message string, roles ...domain.Role) {
	n := domain.Notification{
		ID:         t.newID(),
		Title:      title,
		Message:    message,
		Timestamp:  t.now,
		TargetRole: append([]domain.Role{}, roles...),
	}
	t.notifications = append([]domain.Notification{n}, t.notifications...)
	t.emitted = append(t.emitted, n)
}

// mutate runs fn under the write lock. fn must validate before changing
// anything so that a returned error leaves the state untouched.
func (s *Store) mutate(ctx context.Context, fn func(tx *txn) error) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	tx := &txn{state: &s.state, now: s.nowFn(), newID: s.newID}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.notificationLimit > 0 && len(s.state.notifications) > s.notificationLimit {
		s.state.notifications = s.state.notifications[:s.notificationLimit]
	}
	s.mu.Unlock()

	if s.commit != nil {
		if err := s.commit(ctx); err != nil {
			s.logger.Error("failed to persist state", zap.Int("notifications", len(tx.emitted)), zap.Error(err))
		}
	}
	s.publish(ctx, tx.emitted)
	return nil
}

func (s *Store) publish(ctx context.Context, notifications []domain.Notification) {
	if s.publisher == nil {
		return
	}
	for _, n := range notifications {
		if err := s.publisher.PublishNotification(ctx, ports.NewNotificationEvent(n)); err != nil {
			s.logger.Warn("failed to publish notification",
				zap.String("notification_id", n.ID),
				zap.String("title", n.Title),
				zap.Error(err),
			)
		}
	}
}

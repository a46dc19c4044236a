// Package outbox drains the outbox_events table written by the postgres
// store and publishes each notification event to the message broker.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

// Relay listens for PostgreSQL NOTIFY signals on outbox_channel and publishes
// notification events.
type Relay struct {
	db        *sql.DB
	dbURL     string
	eventType string
	publisher ports.NotificationPublisher
	dbCB      *gobreaker.CircuitBreaker
	logger    *zap.Logger

	mu            sync.RWMutex
	lastProcessed time.Time
	healthy       bool
}

// NewRelay builds a relay for outbox rows of eventType. dbCB guards every
// database transaction.
func NewRelay(db *sql.DB, dbURL, eventType string, publisher ports.NotificationPublisher, dbCB *gobreaker.CircuitBreaker, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		eventType:     eventType,
		publisher:     publisher,
		dbCB:          dbCB,
		logger:        logger,
		lastProcessed: time.Now(),
		healthy:       true,
	}
}

// IsHealthy reports whether the relay process is alive and its listener
// connected. An open breaker is degraded, not dead, so it is not checked here.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.healthy
}

// IsReady reports whether the relay can process events.
func (r *Relay) IsReady() bool {
	if r.dbCB != nil && r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy
}

func (r *Relay) markProcessed() {
	r.mu.Lock()
	r.lastProcessed = time.Now()
	r.healthy = true
	r.mu.Unlock()
}

func (r *Relay) setHealthy(v bool) {
	r.mu.Lock()
	r.healthy = v
	r.mu.Unlock()
}

// Start listens for outbox notifications until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Warn("outbox listener error", zap.Error(err))
		}
	}

	listener := pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(outboxChannelName); err != nil {
		return err
	}
	r.logger.Info("outbox relay listening", zap.String("channel", outboxChannelName))

	// catch up on anything written while the relay was down
	if err := r.ProcessPending(ctx); err != nil {
		r.logger.Error("failed to process startup backlog", zap.Error(err))
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay shutting down")
			return ctx.Err()

		case n := <-listener.Notify:
			if n == nil {
				r.logger.Warn("outbox listener reconnecting")
				r.setHealthy(false)
				continue
			}
			if err := r.ProcessEvent(ctx, n.Extra); err != nil {
				r.logger.Error("failed to process event", zap.String("event_id", n.Extra), zap.Error(err))
				continue
			}
			r.markProcessed()

		case <-ticker.C:
			go func() { _ = listener.Ping() }()
			if err := r.ProcessPending(ctx); err != nil {
				r.logger.Error("periodic outbox sweep failed", zap.Error(err))
				continue
			}
			r.markProcessed()
		}
	}
}

func (r *Relay) execute(fn func() error) error {
	if r.dbCB == nil {
		return fn()
	}
	_, err := r.dbCB.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// ProcessEvent publishes one unprocessed event and marks it processed.
func (r *Relay) ProcessEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	return r.execute(func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := r.dispatch(ctx, id, eventType, payload); err != nil {
			return err
		}
		if err := markDone(ctx, tx, id); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// ProcessPending publishes up to one batch of unprocessed events, oldest
// first. A publish failure leaves that event for the next sweep.
func (r *Relay) ProcessPending(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	return r.execute(func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return err
		}

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}
		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, rec := range records {
			if err := r.dispatch(ctx, rec.ID, rec.EventType, rec.Payload); err != nil {
				r.logger.Warn("failed to publish event", zap.String("event_id", rec.ID), zap.Error(err))
				continue
			}
			if err := markDone(ctx, tx, rec.ID); err != nil {
				return err
			}
			r.logger.Debug("event processed", zap.String("event_id", rec.ID))
		}
		return tx.Commit()
	})
}

// dispatch publishes a notification event. Rows of other types and rows
// whose payload does not decode are only marked processed, so bad data is
// not retried forever.
func (r *Relay) dispatch(ctx context.Context, id, eventType string, payload []byte) error {
	if eventType != r.eventType {
		return nil
	}
	var evt ports.NotificationEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		r.logger.Error("invalid outbox payload", zap.String("event_id", id), zap.Error(err))
		return nil
	}
	return r.publisher.PublishNotification(ctx, evt)
}

func markDone(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id)
	return err
}

// Package sqlite persists the in-memory hostel store to a single SQLite table
// of JSON buckets. The full state is written after every mutation and read
// back on start.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/hostel-management/hostel-service/internal/adapters/store/memory"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

var _ ports.HostelStore = (*Store)(nil)

type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var buckets = []string{"users", "rooms", "complaints", "orders", "notifications", "movements", "fees", "menu"}

// NewStore opens (or creates) the database at path and restores any saved
// state into a fresh memory store built with opts.
func NewStore(ctx context.Context, path string, opts ...memory.Option) (*Store, error) {
	if path == "" {
		path = "hostel.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &Store{db: db, path: path}
	s.Store = memory.New(append(opts, memory.WithCommitHook(s.Persist))...)
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Backend() string { return "sqlite" }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snap memory.Snapshot
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		found = true
		var target any
		switch bucket {
		case "users":
			target = &snap.Users
		case "rooms":
			target = &snap.Rooms
		case "complaints":
			target = &snap.Complaints
		case "orders":
			target = &snap.Orders
		case "notifications":
			target = &snap.Notifications
		case "movements":
			target = &snap.Movements
		case "fees":
			target = &snap.Fees
		case "menu":
			target = &snap.Menu
		default:
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if found {
		s.ImportState(snap)
	}
	return nil
}

// Persist writes the current state to the database.
func (s *Store) Persist(ctx context.Context) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, bucket := range buckets {
		var data []byte
		switch bucket {
		case "users":
			data, err = json.Marshal(snap.Users)
		case "rooms":
			data, err = json.Marshal(snap.Rooms)
		case "complaints":
			data, err = json.Marshal(snap.Complaints)
		case "orders":
			data, err = json.Marshal(snap.Orders)
		case "notifications":
			data, err = json.Marshal(snap.Notifications)
		case "movements":
			data, err = json.Marshal(snap.Movements)
		case "fees":
			data, err = json.Marshal(snap.Fees)
		case "menu":
			data, err = json.Marshal(snap.Menu)
		}
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}

package outbox_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/hostel-management/hostel-service/internal/adapters/outbox"
	"github.com/hostel-management/hostel-service/internal/adapters/repository"
	"github.com/hostel-management/hostel-service/internal/config"
	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/mocks"
)

// Runs against TEST_DB_CONNECTION_STRING; the outbox table is truncated.
func TestRelay_ProcessPendingPublishesOutbox(t *testing.T) {
	dsn := os.Getenv("TEST_DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("TEST_DB_CONNECTION_STRING not set")
	}
	ctx := context.Background()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := repository.NewSQLRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE outbox_events`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM users WHERE email = 'relay@hostel.com'`); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.CreateStudent(ctx, domain.NewStudent{Name: "Relay Student", Email: "relay@hostel.com"}); err != nil {
		t.Fatal(err)
	}

	pub := mocks.NewMockNotificationPublisher()
	relay := outbox.NewRelay(db, dsn, repository.NotificationEventType, pub,
		config.NewCircuitBreaker(config.BreakerRelayPostgres, nil), nil)
	if err := relay.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending() error = %v", err)
	}

	events := pub.Events()
	if len(events) != 1 || events[0].Title != domain.TitleNewStudent {
		t.Fatalf("published %+v", events)
	}

	var pending int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox_events WHERE processed_at IS NULL`).Scan(&pending); err != nil {
		t.Fatal(err)
	}
	if pending != 0 {
		t.Errorf("%d events left unprocessed", pending)
	}

	if err := relay.ProcessPending(ctx); err != nil {
		t.Fatal(err)
	}
	if pub.Calls() != 1 {
		t.Errorf("processed events were published again: %d calls", pub.Calls())
	}
}

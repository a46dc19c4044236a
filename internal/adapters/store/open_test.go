package store_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/hostel-management/hostel-service/internal/adapters/store"
	"github.com/hostel-management/hostel-service/internal/adapters/store/memory"
	"github.com/hostel-management/hostel-service/internal/config"
	"github.com/hostel-management/hostel-service/internal/core/domain"
)

func TestOpen_Memory(t *testing.T) {
	opened, err := store.Open(context.Background(), config.StoreConfig{
		Backend:       config.BackendMemory,
		SeedDemoUsers: true,
	}, store.Deps{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer opened.Close()

	if opened.Store.Backend() != "memory" {
		t.Errorf("backend = %s", opened.Store.Backend())
	}
	if _, err := opened.Store.Login(context.Background(), "admin@hostel.com", domain.DefaultPassword); err != nil {
		t.Errorf("demo admin missing: %v", err)
	}
}

func TestOpen_SQLiteKeepsStateAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := config.StoreConfig{
		Backend:       config.BackendSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "hostel.db"),
		SeedDemoUsers: true,
		MonthlyFee:    750,
	}

	first, err := store.Open(ctx, cfg, store.Deps{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	student, err := first.Store.CreateStudent(ctx, domain.NewStudent{Name: "Kept", Email: "kept@hostel.com"})
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := store.Open(ctx, cfg, store.Deps{})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	if second.Store.Backend() != "sqlite" {
		t.Errorf("backend = %s", second.Store.Backend())
	}
	if _, err := second.Store.Login(ctx, "kitchen@hostel.com", domain.DefaultPassword); err != nil {
		t.Errorf("demo users not persisted: %v", err)
	}
	fees, err := second.Store.ListFees(ctx, student.ID)
	if err != nil || len(fees) != 1 || fees[0].Amount != 750 {
		t.Errorf("fees after restart = %+v, %v", fees, err)
	}
}

func TestOpen_RemoteReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"UP"}`))
	}))
	defer srv.Close()

	opened, err := store.Open(context.Background(), config.StoreConfig{
		Backend:       config.BackendRemote,
		RemoteURL:     srv.URL,
		RemoteTimeout: time.Second,
	}, store.Deps{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened.Store.Backend() != "remote" {
		t.Errorf("backend = %s, want remote", opened.Store.Backend())
	}
}

func TestOpen_RemoteUnreachableFallsBackToMemory(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	opened, err := store.Open(context.Background(), config.StoreConfig{
		Backend:       config.BackendRemote,
		RemoteURL:     url,
		RemoteTimeout: 200 * time.Millisecond,
		SeedDemoUsers: true,
	}, store.Deps{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened.Store.Backend() != "memory" {
		t.Fatalf("backend = %s, want memory fallback", opened.Store.Backend())
	}
	if _, err := opened.Store.Login(context.Background(), "warden@hostel.com", domain.DefaultPassword); err != nil {
		t.Errorf("fallback store not seeded: %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := store.Open(context.Background(), config.StoreConfig{Backend: "mongo"}, store.Deps{}); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}

func TestOpen_NotificationLimit(t *testing.T) {
	const students = memory.DefaultNotificationLimit + 5

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero_disables_cap", limit: 0, want: students},
		{name: "explicit_cap", limit: 3, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			opened, err := store.Open(ctx, config.StoreConfig{
				Backend:           config.BackendMemory,
				NotificationLimit: tt.limit,
			}, store.Deps{})
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer opened.Close()

			for i := range students {
				n := domain.NewStudent{Name: fmt.Sprintf("S%d", i), Email: fmt.Sprintf("s%d@hostel.com", i)}
				if _, err := opened.Store.CreateStudent(ctx, n); err != nil {
					t.Fatalf("CreateStudent(%d): %v", i, err)
				}
			}
			got, err := opened.Store.ListNotifications(ctx, domain.RoleAdmin)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("retained %d notifications, want %d", len(got), tt.want)
			}
		})
	}
}

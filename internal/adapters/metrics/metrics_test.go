package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
)

func TestMetrics_Recorders(t *testing.T) {
	m := New("hostel")

	m.ObserveHTTP("GET", "/api/rooms", "200", 20*time.Millisecond)
	m.ObserveHTTP("GET", "/api/rooms", "200", 30*time.Millisecond)
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/rooms", "200")); got != 2 {
		t.Errorf("http requests = %v, want 2", got)
	}

	m.RecordAuthAttempt(nil)
	m.RecordAuthAttempt(errors.New("bad password"))
	if got := testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("auth errors = %v, want 1", got)
	}

	m.RecordRemoteCall("ListRooms", nil)
	if got := testutil.ToFloat64(m.RemoteCallsTotal.WithLabelValues("ListRooms", "success")); got != 1 {
		t.Errorf("remote calls = %v, want 1", got)
	}

	m.SetBreakerState("Remote-Store", gobreaker.StateOpen)
	if got := testutil.ToFloat64(m.BreakerState.WithLabelValues("Remote-Store")); got != 2 {
		t.Errorf("breaker gauge = %v, want 2", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New("hostel")
	m.RecordNotification(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hostel_notifications_published_total") {
		t.Error("expected notification counter in exposition")
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := New("hostel")
	b := New("hostel")
	if a.Registry() == b.Registry() {
		t.Error("expected separate registries")
	}
}

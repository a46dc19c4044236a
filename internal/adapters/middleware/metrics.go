package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPObserver records one request. *metrics.Metrics satisfies it.
type HTTPObserver interface {
	ObserveHTTP(method, path, status string, elapsed time.Duration)
}

// Metrics must wrap the ServeMux directly so the matched route pattern is
// visible after the handler returns.
func Metrics(obs HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			path := r.Pattern
			if _, route, ok := strings.Cut(path, " "); ok {
				path = route
			}
			if path == "" {
				path = "unmatched"
			}
			obs.ObserveHTTP(r.Method, path, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}

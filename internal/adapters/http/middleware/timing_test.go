package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymdesk/internal/adapters/http/perf"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// TestTimingMiddleware_EmitsEntry verifies that a request entry is recorded.
func TestTimingMiddleware_EmitsEntry(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimingMiddleware_CapturesStatusCode verifies the status code is captured.
func TestTimingMiddleware_CapturesStatusCode(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest("GET", "/api/export", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1", snap.ServerErrors)
	}
}

// TestTimingMiddleware_NilCollector verifies middleware works without a collector.
func TestTimingMiddleware_NilCollector(t *testing.T) {
	handler := Timing(nil, 0)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_HandlerPanic verifies the deferred bookkeeping still
// runs when the handler panics. Recovery is Recover's job.
func TestTimingMiddleware_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/api/panic", nil)
	rr := httptest.NewRecorder()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate, got nil")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()

	handler.ServeHTTP(rr, req)
}

// TestTimingMiddleware_KeysByRoutePattern verifies requests for different ids
// share one key.
func TestTimingMiddleware_KeysByRoutePattern(t *testing.T) {
	collector := perf.NewCollector(10)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/clients/{id}", okHandler)
	handler := Timing(collector, 0)(mux)

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest("GET", "/api/clients/"+id, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 {
		t.Fatalf("SlowestRoutes len = %d, want 1", len(snap.SlowestRoutes))
	}
	got := snap.SlowestRoutes[0]
	if got.Key != "GET /api/clients/{id}" || got.Count != 3 {
		t.Errorf("route = %q x%d, want \"GET /api/clients/{id}\" x3", got.Key, got.Count)
	}
}

// TestTimingMiddleware_UnmatchedShareKey verifies stray paths collapse to one key per method.
func TestTimingMiddleware_UnmatchedShareKey(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(http.NotFoundHandler())

	for _, p := range []string{"/wp-admin", "/.env", "/x/y/z"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", p, nil))
	}

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Key != "GET (unmatched)" {
		t.Errorf("SlowestRoutes = %+v, want a single \"GET (unmatched)\" key", snap.SlowestRoutes)
	}
}

// TestTimingMiddleware_PoolNoStateLeak verifies that statusWriter pool reuse
// does not leak status codes between requests.
func TestTimingMiddleware_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(100)

	handler500 := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler500.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/fail", nil))

	// Implicit 200; a leaked writer would still report 500.
	handler200 := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler200.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/ok", nil))

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.Requests != 2 || snap.ServerErrors != 1 {
		t.Errorf("Requests=%d ServerErrors=%d, want 2 and 1", snap.Requests, snap.ServerErrors)
	}
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gymdesk/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 500

// requestIDCounter is an atomic counter for request IDs.
var requestIDCounter atomic.Uint64

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// Timing returns middleware that logs request duration and records it in collector.
// Entries are keyed by the matched route pattern so /api/clients/{id} aggregates
// across clients. Normal requests log at DEBUG; requests at or above slowMs log at WARN.
// slowMs <= 0 uses DefaultSlowRequestMs. A nil collector only logs.
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := requestIDCounter.Add(1)

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				key := routeKey(r)

				if durationMs >= threshold {
					slog.Warn("slow_request",
						"request_id", reqID,
						"route", key,
						"path", r.URL.Path,
						"status", sw.status,
						"duration_ms", durationMs,
					)
				} else {
					slog.Debug("request",
						"request_id", reqID,
						"route", key,
						"path", r.URL.Path,
						"status", sw.status,
						"duration_ms", durationMs,
					)
				}

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Key:        key,
						Status:     sw.status,
						DurationMs: durationMs,
						At:         start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// routeKey names the request by its ServeMux pattern. Unmatched requests share
// one key per method so stray paths do not grow the collector's key space.
func routeKey(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return r.Method + " (unmatched)"
	}
	if strings.Contains(pattern, " ") {
		return pattern
	}
	return r.Method + " " + pattern
}

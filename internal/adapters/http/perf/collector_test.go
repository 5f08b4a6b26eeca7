package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_RecordAndSnapshot verifies routes and queries aggregate separately.
func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Key: "POST /api/checkin", Status: 200, DurationMs: 10, At: now})
	c.Record(Entry{Kind: KindRequest, Key: "POST /api/checkin", Status: 404, DurationMs: 30, At: now})
	c.Record(Entry{Kind: KindRequest, Key: "GET /api/dashboard", Status: 500, DurationMs: 5, At: now})
	c.Record(Entry{Kind: KindQuery, Key: "SELECT client", DurationMs: 5, At: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.Requests != 3 || snap.Queries != 1 {
		t.Errorf("Requests = %d, Queries = %d, want 3 and 1", snap.Requests, snap.Queries)
	}
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1", snap.ServerErrors)
	}
	if len(snap.SlowestRoutes) != 2 {
		t.Fatalf("SlowestRoutes len = %d, want 2", len(snap.SlowestRoutes))
	}
	top := snap.SlowestRoutes[0]
	if top.Key != "POST /api/checkin" || top.AvgMs != 20 || top.MaxMs != 30 || top.Count != 2 {
		t.Errorf("top route = %+v", top)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Key != "SELECT client" {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
	if snap.TotalRecorded != 4 {
		t.Errorf("TotalRecorded = %d, want 4", snap.TotalRecorded)
	}
}

// TestCollector_RingBufferOverwrites verifies the oldest entries are dropped.
func TestCollector_RingBufferOverwrites(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Key: "GET /api/clients", DurationMs: float64(i), At: now})
	}
	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.SlowestRoutes[0].Count != 3 {
		t.Errorf("Count = %d, want 3 (ring buffer kept last 3)", snap.SlowestRoutes[0].Count)
	}
	if snap.SlowestRoutes[0].AvgMs != 3 {
		t.Errorf("AvgMs = %v, want 3 (entries 2,3,4)", snap.SlowestRoutes[0].AvgMs)
	}
}

// TestCollector_Percentiles verifies interpolated request and query percentiles.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Key: "GET /p", DurationMs: float64(i), At: now})
		c.Record(Entry{Kind: KindQuery, Key: "SELECT payment", DurationMs: float64(i) / 10, At: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 50 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50.5", snap.RequestP50Ms)
	}
	if snap.RequestP99Ms < 99 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
	if snap.QueryP95Ms < 9.5 || snap.QueryP95Ms > 9.6 {
		t.Errorf("QueryP95 = %v, want ~9.5", snap.QueryP95Ms)
	}
}

// TestCollector_SnapshotFiltersBySince verifies old entries are excluded.
func TestCollector_SnapshotFiltersBySince(t *testing.T) {
	c := NewCollector(10)
	c.Record(Entry{Kind: KindRequest, Key: "GET /old", DurationMs: 100, At: time.Now().Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindRequest, Key: "GET /new", DurationMs: 10, At: time.Now()})

	snap := c.Snapshot(time.Now().Add(-time.Hour), 10)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Key != "GET /new" {
		t.Errorf("SlowestRoutes = %+v, want only GET /new", snap.SlowestRoutes)
	}
}

// TestCollector_TopNTruncates verifies only topN keys are returned.
func TestCollector_TopNTruncates(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	for i, key := range []string{"a", "b", "c", "d"} {
		c.Record(Entry{Kind: KindQuery, Key: key, DurationMs: float64(i), At: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 2)
	if len(snap.SlowestQueries) != 2 || snap.SlowestQueries[0].Key != "d" || snap.SlowestQueries[1].Key != "c" {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
}

// TestCollector_ConcurrentWrites verifies Record is safe under contention.
func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(10000)
	now := time.Now()
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				c.Record(Entry{Kind: KindRequest, Key: "GET /c", DurationMs: float64(n), At: now})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}

// BenchmarkCollectorRecord measures the hot-path cost of Record.
func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Key: "POST /api/checkin", Status: 200, DurationMs: 1.5, At: time.Now()}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}

// BenchmarkCollectorSnapshot measures cost of computing percentiles and top-N.
func BenchmarkCollectorSnapshot(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	now := time.Now()
	for i := 0; i < DefaultRingSize; i++ {
		c.Record(Entry{Kind: KindRequest, Key: "GET /bench", Status: 200, DurationMs: float64(i % 100), At: now})
	}
	since := now.Add(-time.Hour)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Snapshot(since, 10)
	}
}

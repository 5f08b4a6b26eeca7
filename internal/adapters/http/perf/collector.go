// Package perf keeps a bounded in-memory record of request and query timings
// for the /api/perf endpoint.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Key        string // route pattern ("POST /api/checkin") or query label ("SELECT client")
	Status     int    // HTTP status, 0 for queries
	DurationMs float64
	At         time.Time
}

// Collector is a fixed-size ring buffer for timing entries.
// When full, the oldest entries are overwritten. Aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: none (size <= 0 uses DefaultRingSize)
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot holds aggregated timings for a window.
type Snapshot struct {
	Since          time.Time `json:"since"`
	TotalRecorded  int64     `json:"totalRecorded"`
	Requests       int       `json:"requests"`
	ServerErrors   int       `json:"serverErrors"`
	Queries        int       `json:"queries"`
	RequestP50Ms   float64   `json:"requestP50Ms"`
	RequestP95Ms   float64   `json:"requestP95Ms"`
	RequestP99Ms   float64   `json:"requestP99Ms"`
	QueryP95Ms     float64   `json:"queryP95Ms"`
	SlowestRoutes  []KeyStat `json:"slowestRoutes"`
	SlowestQueries []KeyStat `json:"slowestQueries"`
}

// KeyStat aggregates timing for one route or query label.
type KeyStat struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	TotalMs float64 `json:"totalMs"`
}

// Snapshot computes aggregated stats for entries at or after since.
// PRE: topN > 0
// POST: Slowest lists are sorted by average duration, descending, at most topN long
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}
	var requestDurations, queryDurations []float64
	routes := make(map[string]*KeyStat)
	queries := make(map[string]*KeyStat)

	for _, e := range buf {
		if e.At.IsZero() || e.At.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			snap.Requests++
			if e.Status >= 500 {
				snap.ServerErrors++
			}
			requestDurations = append(requestDurations, e.DurationMs)
			accumulate(routes, e)
		case KindQuery:
			snap.Queries++
			queryDurations = append(queryDurations, e.DurationMs)
			accumulate(queries, e)
		}
	}

	snap.SlowestRoutes = topByAvg(routes, topN)
	snap.SlowestQueries = topByAvg(queries, topN)

	if len(requestDurations) > 0 {
		sort.Float64s(requestDurations)
		snap.RequestP50Ms = percentile(requestDurations, 50)
		snap.RequestP95Ms = percentile(requestDurations, 95)
		snap.RequestP99Ms = percentile(requestDurations, 99)
	}
	if len(queryDurations) > 0 {
		sort.Float64s(queryDurations)
		snap.QueryP95Ms = percentile(queryDurations, 95)
	}
	return snap
}

func accumulate(stats map[string]*KeyStat, e Entry) {
	s, ok := stats[e.Key]
	if !ok {
		s = &KeyStat{Key: e.Key}
		stats[e.Key] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	if e.DurationMs > s.MaxMs {
		s.MaxMs = e.DurationMs
	}
}

// percentile returns the p-th percentile from a sorted slice, interpolating between ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*KeyStat, n int) []KeyStat {
	list := make([]KeyStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Key < list[j].Key
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

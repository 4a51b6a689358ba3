package observability

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	started      time.Time
	requestCount map[string]int64
	errorCount   map[string]int64
	latencyTotal map[string]time.Duration
}

// Counter is one labelled counter in a snapshot.
type Counter struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
	// AvgMillis is the mean latency; set for request counters only.
	AvgMillis float64 `json:"avgMillis,omitempty"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	UptimeSeconds int64     `json:"uptimeSeconds"`
	Requests      []Counter `json:"requests"`
	Errors        []Counter `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		started:      time.Now(),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		latencyTotal: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.latencyTotal[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the counters, sorted by path, method and label.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Requests: []Counter{}, Errors: []Counter{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		Requests:      make([]Counter, 0, len(m.requestCount)),
		Errors:        make([]Counter, 0, len(m.errorCount)),
	}
	for key, n := range m.requestCount {
		c := splitKey(key, n)
		if n > 0 {
			c.AvgMillis = float64(m.latencyTotal[key].Microseconds()) / 1000 / float64(n)
		}
		snap.Requests = append(snap.Requests, c)
	}
	for key, n := range m.errorCount {
		snap.Errors = append(snap.Errors, splitKey(key, n))
	}
	sortCounters(snap.Requests)
	sortCounters(snap.Errors)
	return snap
}

func pathKey(path, method, label string) string {
	return path + "|" + method + "|" + label
}

func splitKey(key string, n int64) Counter {
	parts := strings.SplitN(key, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return Counter{Path: parts[0], Method: parts[1], Label: parts[2], Count: n}
}

func sortCounters(cs []Counter) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Path != cs[j].Path {
			return cs[i].Path < cs[j].Path
		}
		if cs[i].Method != cs[j].Method {
			return cs[i].Method < cs[j].Method
		}
		return cs[i].Label < cs[j].Label
	})
}

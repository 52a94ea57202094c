package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is the request metrics state at a point in time.
type Snapshot struct {
	Timestamp  time.Time `json:"timestamp"`
	UptimeSec  float64   `json:"uptime_sec"`
	ColorsPath string    `json:"colors_path"`

	Requests    int64   `json:"requests"`
	Served      int64   `json:"served"`
	Failed      int64   `json:"failed"`
	Limited     int64   `json:"limited"`
	RequestsSec float64 `json:"requests_per_sec"`

	WSClients int `json:"ws_clients"`

	LastServed *time.Time `json:"last_served,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

// LogEntry represents a log line captured for the API and TUI.
type LogEntry struct {
	Time    time.Time         `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Collector aggregates request metrics for the status endpoint.
type Collector struct {
	startedAt  time.Time
	colorsPath string

	requests atomic.Int64
	served   atomic.Int64
	failed   atomic.Int64
	limited  atomic.Int64
	clients  atomic.Int64

	mu         sync.RWMutex
	lastServed time.Time
	lastError  string

	reqWindow *slidingWindow

	logMu  sync.Mutex
	logs   []LogEntry
	logCap int
}

// NewCollector creates a new Collector for the document at colorsPath.
func NewCollector(colorsPath string) *Collector {
	return &Collector{
		startedAt:  time.Now(),
		colorsPath: colorsPath,
		reqWindow:  newSlidingWindow(60 * time.Second),
		logs:       make([]LogEntry, 0, 500),
		logCap:     500,
	}
}

// RecordRequest counts a request to any route.
func (c *Collector) RecordRequest() {
	c.requests.Add(1)
	c.reqWindow.Add(time.Now(), 1)
}

// RecordServed counts a successful colors response.
func (c *Collector) RecordServed() {
	c.served.Add(1)
	c.mu.Lock()
	c.lastServed = time.Now()
	c.mu.Unlock()
}

// RecordFailure counts a failed colors read and keeps its cause.
func (c *Collector) RecordFailure(err error) {
	c.failed.Add(1)
	if err != nil {
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
	}
}

// RecordLimited counts a request rejected by the rate limiter.
func (c *Collector) RecordLimited() {
	c.limited.Add(1)
}

// ClientConnected and ClientDisconnected track live websocket clients.
func (c *Collector) ClientConnected() {
	c.clients.Add(1)
}

func (c *Collector) ClientDisconnected() {
	c.clients.Add(-1)
}

// AddLog appends a log entry to the ring buffer.
func (c *Collector) AddLog(entry LogEntry) {
	c.logMu.Lock()
	defer c.logMu.Unlock()
	if len(c.logs) >= c.logCap {
		// Shift buffer: drop oldest quarter.
		n := c.logCap / 4
		copy(c.logs, c.logs[n:])
		c.logs = c.logs[:len(c.logs)-n]
	}
	c.logs = append(c.logs, entry)
}

// Logs returns a copy of recent log entries.
func (c *Collector) Logs() []LogEntry {
	c.logMu.Lock()
	defer c.logMu.Unlock()
	out := make([]LogEntry, len(c.logs))
	copy(out, c.logs)
	return out
}

// Snapshot returns the current metrics state (thread-safe).
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	lastServed := c.lastServed
	lastErr := c.lastError
	c.mu.RUnlock()

	var servedAt *time.Time
	if !lastServed.IsZero() {
		servedAt = &lastServed
	}

	now := time.Now()
	return Snapshot{
		Timestamp:   now,
		UptimeSec:   now.Sub(c.startedAt).Seconds(),
		ColorsPath:  c.colorsPath,
		Requests:    c.requests.Load(),
		Served:      c.served.Load(),
		Failed:      c.failed.Load(),
		Limited:     c.limited.Load(),
		RequestsSec: c.reqWindow.Rate(),
		WSClients:   int(c.clients.Load()),
		LastServed:  servedAt,
		LastError:   lastErr,
	}
}

// --- Sliding window for throughput calculation ---

type windowEntry struct {
	time  time.Time
	value float64
}

type slidingWindow struct {
	mu      sync.Mutex
	entries []windowEntry
	window  time.Duration
}

func newSlidingWindow(d time.Duration) *slidingWindow {
	return &slidingWindow{
		entries: make([]windowEntry, 0, 128),
		window:  d,
	}
}

func (w *slidingWindow) Add(t time.Time, val float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, windowEntry{time: t, value: val})
	w.evict(t)
}

func (w *slidingWindow) Rate() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	w.evict(now)
	if len(w.entries) == 0 {
		return 0
	}
	var total float64
	for _, e := range w.entries {
		total += e.value
	}
	elapsed := now.Sub(w.entries[0].time).Seconds()
	if elapsed < 1 {
		elapsed = 1
	}
	return total / elapsed
}

func (w *slidingWindow) evict(now time.Time) {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(w.entries) && w.entries[i].time.Before(cutoff) {
		i++
	}
	if i > 0 {
		copy(w.entries, w.entries[i:])
		w.entries = w.entries[:len(w.entries)-i]
	}
}

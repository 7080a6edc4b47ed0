// Package metrics provides lightweight, lock-free counters for tracking
// runtime statistics of a receiver session.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"emorecv/internal/emotion"
)

// Collector tracks runtime metrics for a receiver session.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	connectionsActive atomic.Int64
	connectionsTotal  atomic.Int64
	bytesIn           atomic.Int64
	codesTotal        atomic.Int64
	fallbacks         atomic.Int64
	errorsTotal       atomic.Int64

	// perCode is indexed by the raw byte value.
	perCode [256]atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastCode     time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connection metrics ───────────────────────────────────────────────

// ConnectionOpened increments both the active and total counters.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(1)
	c.connectionsTotal.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(-1)
}

// ActiveConnections returns the current number of open connections.
func (c *Collector) ActiveConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsActive.Load()
}

// TotalConnections returns the lifetime connection count.
func (c *Collector) TotalConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsTotal.Load()
}

// ── I/O metrics ──────────────────────────────────────────────────────

// BytesReceived records n bytes read from the network.
func (c *Collector) BytesReceived(n int64) {
	if c == nil {
		return
	}
	c.bytesIn.Add(n)
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// ── Code metrics ─────────────────────────────────────────────────────

// CodeReceived records one decoded code.
func (c *Collector) CodeReceived(code byte) {
	if c == nil {
		return
	}
	c.codesTotal.Add(1)
	c.perCode[code].Add(1)
	if !emotion.Known(code) {
		c.fallbacks.Add(1)
	}
	c.mu.Lock()
	c.lastCode = time.Now()
	c.mu.Unlock()
}

// Codes returns the total number of codes decoded.
func (c *Collector) Codes() int64 {
	if c == nil {
		return 0
	}
	return c.codesTotal.Load()
}

// CodeCount returns how many times code has been received.
func (c *Collector) CodeCount(code byte) int64 {
	if c == nil {
		return 0
	}
	return c.perCode[code].Load()
}

// Fallbacks returns the number of codes that fell outside the table.
func (c *Collector) Fallbacks() int64 {
	if c == nil {
		return 0
	}
	return c.fallbacks.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string           `json:"uptime"`
	ConnectionsActive int64            `json:"connections_active"`
	ConnectionsTotal  int64            `json:"connections_total"`
	BytesIn           int64            `json:"bytes_in"`
	CodesTotal        int64            `json:"codes_total"`
	Labels            map[string]int64 `json:"labels"`
	Fallbacks         int64            `json:"fallbacks"`
	ErrorsTotal       int64            `json:"errors_total"`
	LastCode          string           `json:"last_code,omitempty"`
	LastError         string           `json:"last_error,omitempty"`
	LastErrorMessage  string           `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.  Labels holds one
// entry per known emotion, zero counts included.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		ConnectionsActive: c.connectionsActive.Load(),
		ConnectionsTotal:  c.connectionsTotal.Load(),
		BytesIn:           c.bytesIn.Load(),
		CodesTotal:        c.codesTotal.Load(),
		Labels:            make(map[string]int64, 4),
		Fallbacks:         c.fallbacks.Load(),
		ErrorsTotal:       c.errorsTotal.Load(),
	}
	for _, code := range emotion.Codes() {
		s.Labels[emotion.Decode(code)] = c.perCode[code].Load()
	}
	if !c.lastCode.IsZero() {
		s.LastCode = c.lastCode.Format(time.RFC3339)
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}

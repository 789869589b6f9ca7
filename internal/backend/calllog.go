package backend

import (
	"sync"
	"time"
)

// Call represents one recorded backend request, successful or not.
type Call struct {
	// Unique identifier, shared with the request log lines.
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int64     `json:"latency_ms"`

	// Model info
	Backend string `json:"backend"`
	Model   string `json:"model"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CallLog accumulates backend calls for end-of-run reporting. The zero value
// is not usable; create one with NewCallLog.
type CallLog struct {
	mu    sync.Mutex
	calls []Call
}

// NewCallLog creates an empty call log.
func NewCallLog() *CallLog {
	return &CallLog{}
}

// Record appends one call.
func (l *CallLog) Record(c Call) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
}

// Calls returns a copy of every recorded call in order.
func (l *CallLog) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Summary aggregates the log into run totals.
func (l *CallLog) Summary() CallSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	var s CallSummary
	for _, c := range l.calls {
		s.Total++
		if c.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.TotalLatencyMs += c.LatencyMs
	}
	return s
}

// CallSummary holds run totals aggregated from a CallLog.
type CallSummary struct {
	Total          int   `json:"total"`
	Succeeded      int   `json:"succeeded"`
	Failed         int   `json:"failed"`
	TotalLatencyMs int64 `json:"total_latency_ms"`
}

package server

import "sync/atomic"

// Stats collects DNS serving statistics. All methods are safe for
// concurrent use.
type Stats struct {
	queriesTotal   atomic.Uint64
	responsesNX    atomic.Uint64
	responsesErr   atomic.Uint64
	latencyTotalNs atomic.Uint64
}

// NewStats creates a statistics collector.
func NewStats() *Stats {
	return &Stats{}
}

// RecordQuery records one inbound query.
func (s *Stats) RecordQuery() {
	s.queriesTotal.Add(1)
}

// RecordNXDOMAIN records an authoritative negative answer.
func (s *Stats) RecordNXDOMAIN() {
	s.responsesNX.Add(1)
}

// RecordError records an error response (SERVFAIL, FORMERR).
func (s *Stats) RecordError() {
	s.responsesErr.Add(1)
}

// RecordLatency records query latency in nanoseconds.
func (s *Stats) RecordLatency(ns int64) {
	if ns > 0 {
		s.latencyTotalNs.Add(uint64(ns))
	}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	QueriesTotal uint64
	ResponsesNX  uint64
	ResponsesErr uint64
	AvgLatencyMs float64
}

// Snapshot returns the current statistics.
func (s *Stats) Snapshot() Snapshot {
	total := s.queriesTotal.Load()
	latencyNs := s.latencyTotalNs.Load()

	avgLatencyMs := 0.0
	if total > 0 {
		avgLatencyMs = float64(latencyNs) / float64(total) / 1e6
	}
	return Snapshot{
		QueriesTotal: total,
		ResponsesNX:  s.responsesNX.Load(),
		ResponsesErr: s.responsesErr.Load(),
		AvgLatencyMs: avgLatencyMs,
	}
}

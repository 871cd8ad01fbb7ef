package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks pipeline timings. It is safe for concurrent use.
type Metrics struct {
	loads      stage
	layouts    stage
	projection stage

	startTime time.Time
}

type stage struct {
	count   atomic.Uint64
	totalNs atomic.Int64
	maxNs   atomic.Int64
	lastNs  atomic.Int64
}

func (s *stage) record(d time.Duration) {
	ns := d.Nanoseconds()
	s.count.Add(1)
	s.totalNs.Add(ns)
	s.lastNs.Store(ns)
	for {
		old := s.maxNs.Load()
		if ns <= old || s.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

func (s *stage) snapshot() StageSnapshot {
	snap := StageSnapshot{
		Count: s.count.Load(),
		Max:   time.Duration(s.maxNs.Load()),
		Last:  time.Duration(s.lastNs.Load()),
	}
	if snap.Count > 0 {
		snap.Avg = time.Duration(s.totalNs.Load() / int64(snap.Count))
	}
	return snap
}

func (s *stage) reset() {
	s.count.Store(0)
	s.totalNs.Store(0)
	s.maxNs.Store(0)
	s.lastNs.Store(0)
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordLoad records the time taken to parse a document.
func (m *Metrics) RecordLoad(d time.Duration) { m.loads.record(d) }

// RecordLayout records the time taken by a style and layout update.
func (m *Metrics) RecordLayout(d time.Duration) { m.layouts.record(d) }

// RecordProjection records the time taken to project a selection.
func (m *Metrics) RecordProjection(d time.Duration) { m.projection.record(d) }

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Uptime:     time.Since(m.startTime),
		Load:       m.loads.snapshot(),
		Layout:     m.layouts.snapshot(),
		Projection: m.projection.snapshot(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.loads.reset()
	m.layouts.reset()
	m.projection.reset()
	m.startTime = time.Now()
}

// StageSnapshot summarizes one pipeline stage.
type StageSnapshot struct {
	Count uint64
	Avg   time.Duration
	Max   time.Duration
	Last  time.Duration
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime     time.Duration
	Load       StageSnapshot
	Layout     StageSnapshot
	Projection StageSnapshot
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}

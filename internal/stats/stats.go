// Package stats keeps a rolling window of render timings.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration time.Duration
	bytes    int
}

// Snapshot aggregates the samples currently inside the window.
type Snapshot struct {
	Count       int     `json:"count"`
	MinMs       float64 `json:"min_ms"`
	MaxMs       float64 `json:"max_ms"`
	AvgMs       float64 `json:"avg_ms"`
	P50Ms       float64 `json:"p50_ms"`
	P95Ms       float64 `json:"p95_ms"`
	P99Ms       float64 `json:"p99_ms"`
	OutputBytes int64   `json:"output_bytes"`
}

// RenderStats records how long renders took and how much text they produced.
type RenderStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

// New returns stats over a rolling window; non-positive windows mean one hour.
func New(window time.Duration) *RenderStats {
	if window <= 0 {
		window = time.Hour
	}
	return &RenderStats{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one render. Negative durations are clamped to zero.
func (s *RenderStats) Record(d time.Duration, outputBytes int) {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, duration: d, bytes: outputBytes})
}

// Snapshot returns the current aggregate.
func (s *RenderStats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return Snapshot{}
	}

	values := make([]float64, 0, len(s.samples))
	var sum float64
	var total int64
	for _, sm := range s.samples {
		ms := float64(sm.duration) / float64(time.Millisecond)
		values = append(values, ms)
		sum += ms
		total += int64(sm.bytes)
	}
	slices.Sort(values)

	return Snapshot{
		Count:       len(values),
		MinMs:       values[0],
		MaxMs:       values[len(values)-1],
		AvgMs:       sum / float64(len(values)),
		P50Ms:       percentile(values, 50),
		P95Ms:       percentile(values, 95),
		P99Ms:       percentile(values, 99),
		OutputBytes: total,
	}
}

func (s *RenderStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * pct / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}

package stats

import (
	"testing"
	"time"
)

func TestRenderStatsSnapshotPercentiles(t *testing.T) {
	s := New(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		s.Record(time.Duration(ms)*time.Millisecond, 10)
	}

	snap := s.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %f", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %f", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.OutputBytes != 50 {
		t.Fatalf("expected 50 output bytes, got %d", snap.OutputBytes)
	}
}

func TestRenderStatsPrunesExpiredSamples(t *testing.T) {
	now := time.Now()
	s := New(10 * time.Millisecond)
	s.now = func() time.Time { return now }
	s.Record(100*time.Millisecond, 1)

	now = now.Add(25 * time.Millisecond)
	if snap := s.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	s.Record(200*time.Millisecond, 1)
	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
}

func TestRenderStatsClampsNegativeDuration(t *testing.T) {
	s := New(time.Hour)
	s.Record(-10*time.Millisecond, 0)
	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
}

func TestRenderStatsEmptySnapshot(t *testing.T) {
	if snap := New(0).Snapshot(); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

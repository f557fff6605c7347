package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(401, 20*time.Millisecond)
	c.Record(429, 0)
	c.Record(500, 30*time.Millisecond)

	snap := c.Snapshot()
	if snap.RequestsTotal != 4 {
		t.Fatalf("expected 4 requests, got %d", snap.RequestsTotal)
	}
	if snap.ClientErrorsTotal != 2 || snap.ServerErrorsTotal != 1 {
		t.Fatalf("unexpected error counts: %+v", snap)
	}
	if snap.RateLimitedTotal != 1 || snap.UnauthorizedTotal != 1 {
		t.Fatalf("unexpected status counters: %+v", snap)
	}
	if snap.AvgDurationMs != 15 {
		t.Fatalf("expected avg 15ms, got %v", snap.AvgDurationMs)
	}
}

func TestNilCollectorIgnoresRecord(t *testing.T) {
	var c *Collector
	c.Record(200, time.Millisecond)
}

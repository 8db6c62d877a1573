package metrics

import (
	"testing"
	"time"
)

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()

	c.Record(OpChat, 100*time.Millisecond, false)
	c.Record(OpChat, 300*time.Millisecond, true)
	c.Record(OpHealth, 5*time.Millisecond, false)

	snap := c.Snapshot()
	if len(snap.Operations) != 2 {
		t.Fatalf("Snapshot() has %d operations, want 2", len(snap.Operations))
	}

	// Sorted by name: chat before health.
	chat := snap.Operations[0]
	if chat.Operation != OpChat {
		t.Fatalf("Operations[0] = %q, want %q", chat.Operation, OpChat)
	}
	if chat.Count != 2 || chat.Failures != 1 {
		t.Errorf("chat count/failures = %d/%d, want 2/1", chat.Count, chat.Failures)
	}
	if chat.MinTimeMs != 100 || chat.MaxTimeMs != 300 {
		t.Errorf("chat min/max = %d/%d ms, want 100/300", chat.MinTimeMs, chat.MaxTimeMs)
	}
	if chat.AvgTimeMs != 200 {
		t.Errorf("chat avg = %v ms, want 200", chat.AvgTimeMs)
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()
	if len(snap.Operations) != 0 {
		t.Errorf("empty collector has %d operations, want 0", len(snap.Operations))
	}
	if snap.UptimeSeconds < 0 {
		t.Errorf("UptimeSeconds = %v, want >= 0", snap.UptimeSeconds)
	}
}

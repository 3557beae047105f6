package metrics

import (
	"sync"
	"testing"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.Inc("toggle.activate")
	c.Inc("toggle.activate")
	c.Inc("app.ff.activate")
	c.Add("toggle.launch", 3)

	if got := c.Count("toggle.activate"); got != 2 {
		t.Fatalf("Count(toggle.activate) = %d, want 2", got)
	}
	if got := c.Count("toggle.launch"); got != 3 {
		t.Fatalf("Count(toggle.launch) = %d, want 3", got)
	}
	if got := c.Count("never.seen"); got != 0 {
		t.Fatalf("Count(never.seen) = %d, want 0", got)
	}
}

func TestSnapshotSortedByName(t *testing.T) {
	c := NewCollector()
	c.Inc("toggle.minimize")
	c.Inc("app.ff.activate")
	c.Inc("snapshot.timeout")

	snap := c.Snapshot()
	if snap.Started.IsZero() {
		t.Fatalf("snapshot missing start time")
	}
	if len(snap.Counters) != 3 {
		t.Fatalf("got %d counters, want 3", len(snap.Counters))
	}
	for i := 1; i < len(snap.Counters); i++ {
		if snap.Counters[i-1].Name >= snap.Counters[i].Name {
			t.Fatalf("counters not sorted: %q before %q", snap.Counters[i-1].Name, snap.Counters[i].Name)
		}
	}
	for _, m := range snap.Counters {
		if m.Last.IsZero() {
			t.Fatalf("counter %q missing last-seen time", m.Name)
		}
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Inc("toggle.activate")
	if got := c.Count("toggle.activate"); got != 0 {
		t.Fatalf("nil collector counted %d", got)
	}
	if snap := c.Snapshot(); len(snap.Counters) != 0 {
		t.Fatalf("nil collector produced counters: %+v", snap.Counters)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc("toggle.activate")
			}
		}()
	}
	wg.Wait()
	if got := c.Count("toggle.activate"); got != 800 {
		t.Fatalf("Count = %d, want 800", got)
	}
}

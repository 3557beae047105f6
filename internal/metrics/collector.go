// Package metrics aggregates in-process counters for toggle activity.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Collector counts named events since process start.
type Collector struct {
	mu      sync.RWMutex
	started time.Time
	counts  map[string]*CounterMetric
}

// CounterMetric is one named counter in a snapshot.
type CounterMetric struct {
	Name  string    `json:"name"`
	Count uint64    `json:"count"`
	Last  time.Time `json:"last,omitempty"`
}

// Snapshot is the serializable view of the current counters.
type Snapshot struct {
	Started  time.Time       `json:"started,omitempty"`
	Counters []CounterMetric `json:"counters,omitempty"`
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		started: time.Now(),
		counts:  make(map[string]*CounterMetric),
	}
}

// Inc increments the named counter by one.
func (c *Collector) Inc(name string) {
	c.Add(name, 1)
}

// Add increments the named counter by delta.
func (c *Collector) Add(name string, delta uint64) {
	if c == nil {
		return
	}
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]*CounterMetric)
	}
	m, ok := c.counts[name]
	if !ok {
		m = &CounterMetric{Name: name}
		c.counts[name] = m
	}
	m.Count += delta
	m.Last = now
}

// Count returns the current value of the named counter.
func (c *Collector) Count(name string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.counts[name]; ok {
		return m.Count
	}
	return 0
}

// Snapshot returns the counters sorted by name.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{Started: c.started}
	if len(c.counts) == 0 {
		return snap
	}
	snap.Counters = make([]CounterMetric, 0, len(c.counts))
	for _, m := range c.counts {
		snap.Counters = append(snap.Counters, *m)
	}
	sort.Slice(snap.Counters, func(i, j int) bool {
		return snap.Counters[i].Name < snap.Counters[j].Name
	})
	return snap
}

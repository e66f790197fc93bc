// Package metrics provides in-memory runtime statistics collection for the
// reconciliation engine.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Snapshot represents the full engine statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	BulkFetch     *OperationSnapshot
	HistoryFetch  *OperationSnapshot
	Send          *OperationSnapshot

	Integrated int64
	Duplicates int64
	Promotions int64
	Dropped    int64
}

// Operation names for the collector.
const (
	OpBulkFetch    = "bulk_fetch"
	OpHistoryFetch = "history_fetch"
	OpSend         = "send"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics

	integrated int64
	duplicates int64
	promotions int64
	dropped    int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for a network operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordIntegrated counts a message appended to a conversation.
func (c *Collector) RecordIntegrated() { c.add(&c.integrated) }

// RecordDuplicate counts a discarded duplicate delivery.
func (c *Collector) RecordDuplicate() { c.add(&c.duplicates) }

// RecordPromotion counts an optimistic message replaced by its confirmed
// form.
func (c *Collector) RecordPromotion() { c.add(&c.promotions) }

// RecordDropped counts a message for an unknown conversation.
func (c *Collector) RecordDropped() { c.add(&c.dropped) }

func (c *Collector) add(field *int64) {
	c.mu.Lock()
	*field++
	c.mu.Unlock()
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}
	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		BulkFetch:     snapshotOp(c.ops[OpBulkFetch]),
		HistoryFetch:  snapshotOp(c.ops[OpHistoryFetch]),
		Send:          snapshotOp(c.ops[OpSend]),
		Integrated:    c.integrated,
		Duplicates:    c.duplicates,
		Promotions:    c.promotions,
		Dropped:       c.dropped,
	}
}

package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestRecordTiming(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpHistoryFetch, 100*time.Millisecond)
	c.RecordTiming(OpHistoryFetch, 300*time.Millisecond)

	snap := c.Snapshot()
	if snap.HistoryFetch == nil {
		t.Fatal("HistoryFetch snapshot is nil")
	}
	if snap.HistoryFetch.Count != 2 {
		t.Errorf("Count = %d, want 2", snap.HistoryFetch.Count)
	}
	if snap.HistoryFetch.MinTimeMs != 100 || snap.HistoryFetch.MaxTimeMs != 300 {
		t.Errorf("Min/Max = %d/%d, want 100/300", snap.HistoryFetch.MinTimeMs, snap.HistoryFetch.MaxTimeMs)
	}
	if snap.HistoryFetch.AvgTimeMs != 200 {
		t.Errorf("AvgTimeMs = %v, want 200", snap.HistoryFetch.AvgTimeMs)
	}

	if snap.BulkFetch != nil || snap.Send != nil {
		t.Error("operations with no data should snapshot as nil")
	}
}

func TestCounters(t *testing.T) {
	c := NewCollector()
	c.RecordIntegrated()
	c.RecordIntegrated()
	c.RecordDuplicate()
	c.RecordPromotion()
	c.RecordDropped()

	snap := c.Snapshot()
	if snap.Integrated != 2 || snap.Duplicates != 1 || snap.Promotions != 1 || snap.Dropped != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 2/1/1/1",
			snap.Integrated, snap.Duplicates, snap.Promotions, snap.Dropped)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordIntegrated()
				c.RecordTiming(OpSend, time.Millisecond)
				c.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.Integrated != 1000 {
		t.Errorf("Integrated = %d, want 1000", snap.Integrated)
	}
	if snap.Send.Count != 1000 {
		t.Errorf("Send.Count = %d, want 1000", snap.Send.Count)
	}
}

package streaming

import (
	"sync"
	"testing"

	"segvolrender/internal/models"
	"segvolrender/pkg/render"
)

// TestFlushDeliversOnce verifies N extents reach the mapper exactly once
func TestFlushDeliversOnce(t *testing.T) {
	tracker := NewExtentTracker()
	mapper := render.NewVolumeMapper()

	for i := 0; i < 5; i++ {
		tracker.Push(models.Extent{i, i + 1, 0, 1, 0, 1})
	}
	if n := tracker.Flush(mapper); n != 5 {
		t.Errorf("Expected 5 extents delivered, got %d", n)
	}
	mtime := mapper.MTime()
	if n := tracker.Flush(mapper); n != 0 {
		t.Errorf("Expected second flush to deliver nothing, got %d", n)
	}
	if mapper.MTime() != mtime {
		t.Error("Expected empty flush to leave the mapper unmodified")
	}

	extents := mapper.UpdatedExtents()
	if len(extents) != 5 {
		t.Fatalf("Expected 5 extents on the mapper, got %d", len(extents))
	}
	for i, ext := range extents {
		if ext[0] != i {
			t.Errorf("Extent %d delivered out of order: %v", i, ext)
		}
	}

	tracker.Push(models.Extent{9, 9, 9, 9, 9, 9})
	tracker.Flush(mapper)
	if got := len(mapper.UpdatedExtents()); got != 6 {
		t.Errorf("Expected mapper list to grow to 6, got %d", got)
	}
	if received, delivered := tracker.Cursor(); received != 6 || delivered != 6 {
		t.Errorf("Expected cursor 6/6, got %d/%d", received, delivered)
	}
}

// TestPushFromLoader verifies concurrent pushes all arrive in one flush
func TestPushFromLoader(t *testing.T) {
	tracker := NewExtentTracker()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				tracker.Push(models.Extent{w, i})
			}
		}(w)
	}
	wg.Wait()

	if tracker.Pending() != 100 {
		t.Errorf("Expected 100 pending extents, got %d", tracker.Pending())
	}
	mapper := render.NewVolumeMapper()
	if n := tracker.Flush(mapper); n != 100 {
		t.Errorf("Expected 100 delivered, got %d", n)
	}
	if tracker.Pending() != 0 {
		t.Errorf("Expected drained queue, got %d pending", tracker.Pending())
	}
}

// Package streaming forwards streamed chunk regions to the volume mapper.
package streaming

import (
	"sync"

	"segvolrender/internal/models"
	"segvolrender/pkg/render"
)

// ExtentTracker queues the extents reported by chunk-load events until the
// next flush delivers them to the mapper. Each extent is delivered exactly
// once; the queue is drained on flush so it never grows past one burst.
//
// Push may be called from the loader goroutine; Flush belongs to the render loop.
type ExtentTracker struct {
	mu        sync.Mutex
	pending   []models.Extent
	received  int
	delivered int
}

// NewExtentTracker creates an empty tracker
func NewExtentTracker() *ExtentTracker {
	return &ExtentTracker{}
}

// Push records the extent reported by one chunk-load event
func (t *ExtentTracker) Push(ext models.Extent) {
	t.mu.Lock()
	t.pending = append(t.pending, ext)
	t.received++
	t.mu.Unlock()
}

// Flush appends every extent pushed since the previous flush to the mapper's
// pending update list and returns how many were delivered. A flush with
// nothing new is a no-op returning 0.
func (t *ExtentTracker) Flush(mapper *render.VolumeMapper) int {
	t.mu.Lock()
	batch := t.pending
	t.pending = nil
	t.delivered += len(batch)
	t.mu.Unlock()

	if len(batch) == 0 {
		return 0
	}
	mapper.AppendUpdatedExtents(batch...)
	return len(batch)
}

// Pending returns the number of extents waiting for the next flush
func (t *ExtentTracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Cursor returns how many extents have been received and delivered so far.
// delivered == received whenever the tracker is settled.
func (t *ExtentTracker) Cursor() (received, delivered int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.received, t.delivered
}

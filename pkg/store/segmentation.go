// Package store holds the segmentation, image and per-view configuration
// state a representation reads, each piece observable for changes.
package store

import (
	"sync"

	"segvolrender/internal/models"
	"segvolrender/pkg/reactive"
)

// Volume is a scalar voxel grid
type Volume struct {
	Dims    [3]int
	Spacing []float64
	Scalars []float64

	chunkLoaded reactive.Event[models.Extent]
}

// NewVolume allocates a zeroed volume. Negative dims are treated as empty.
func NewVolume(dims [3]int, spacing []float64) *Volume {
	for i, d := range dims {
		if d < 0 {
			dims[i] = 0
		}
	}
	return &Volume{
		Dims:    dims,
		Spacing: spacing,
		Scalars: make([]float64, dims[0]*dims[1]*dims[2]),
	}
}

// OnChunkLoaded subscribes to chunk-load events
func (v *Volume) OnChunkLoaded(fn func(models.Extent)) func() {
	return v.chunkLoaded.Subscribe(fn)
}

// ChunkSubscribers returns the number of chunk-load subscriptions
func (v *Volume) ChunkSubscribers() int { return v.chunkLoaded.Subscribers() }

// LoadChunk reports that the voxels inside ext have arrived
func (v *Volume) LoadChunk(ext models.Extent) {
	v.chunkLoaded.Emit(ext)
}

// SegmentationStore holds segmentation metadata and labelmap volumes by id
type SegmentationStore struct {
	mu       sync.Mutex
	metadata map[string]*reactive.Value[*models.SegmentationMetadata]
	data     map[string]*Volume
	modified map[string]*reactive.Event[struct{}]
}

// NewSegmentationStore creates an empty store
func NewSegmentationStore() *SegmentationStore {
	return &SegmentationStore{
		metadata: make(map[string]*reactive.Value[*models.SegmentationMetadata]),
		data:     make(map[string]*Volume),
		modified: make(map[string]*reactive.Event[struct{}]),
	}
}

func (s *SegmentationStore) metadataValue(id string) *reactive.Value[*models.SegmentationMetadata] {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.metadata[id]
	if !ok {
		v = reactive.NewValue[*models.SegmentationMetadata](nil)
		s.metadata[id] = v
	}
	return v
}

func (s *SegmentationStore) modifiedEvent(id string) *reactive.Event[struct{}] {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.modified[id]
	if !ok {
		e = &reactive.Event[struct{}]{}
		s.modified[id] = e
	}
	return e
}

// Metadata returns the metadata of a segmentation, or nil when it is not loaded
func (s *SegmentationStore) Metadata(id string) *models.SegmentationMetadata {
	return s.metadataValue(id).Get()
}

// SetMetadata replaces the metadata of a segmentation. Metadata is treated
// as immutable, so callers publish edits by setting a new value.
func (s *SegmentationStore) SetMetadata(id string, md *models.SegmentationMetadata) {
	s.metadataValue(id).Set(md)
}

// SubscribeMetadata notifies fn when the metadata of id is replaced
func (s *SegmentationStore) SubscribeMetadata(id string, fn func(*models.SegmentationMetadata)) func() {
	return s.metadataValue(id).Subscribe(fn)
}

// Data returns the labelmap volume of a segmentation
func (s *SegmentationStore) Data(id string) (*Volume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[id]
	return v, ok
}

// SetData stores the labelmap volume of a segmentation
func (s *SegmentationStore) SetData(id string, v *Volume) {
	s.mu.Lock()
	s.data[id] = v
	s.mu.Unlock()
	s.modifiedEvent(id).Emit(struct{}{})
}

// NotifyDataModified reports an in-place edit of the labelmap voxels
func (s *SegmentationStore) NotifyDataModified(id string) {
	s.modifiedEvent(id).Emit(struct{}{})
}

// SubscribeDataModified notifies fn when the labelmap voxels of id change
func (s *SegmentationStore) SubscribeDataModified(id string, fn func()) func() {
	return s.modifiedEvent(id).Subscribe(func(struct{}) { fn() })
}

// Remove unloads a segmentation
func (s *SegmentationStore) Remove(id string) {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	s.metadataValue(id).Set(nil)
}

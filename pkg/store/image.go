package store

import (
	"sync"

	"segvolrender/internal/models"
	"segvolrender/pkg/reactive"
)

// ImageMetadata describes a parent grayscale image
type ImageMetadata struct {
	// WorldBounds is the image's world-space bounding box, nil when unknown
	WorldBounds *models.Bounds

	Spacing []float64
}

// imageEntry groups the observable state of one image
type imageEntry struct {
	metadata  *reactive.Value[*ImageMetadata]
	streaming *reactive.Value[bool]
	data      *reactive.Value[*Volume]
}

// ImageStore holds parent image metadata, data and streaming state by id
type ImageStore struct {
	mu     sync.Mutex
	images map[string]*imageEntry
}

// NewImageStore creates an empty store
func NewImageStore() *ImageStore {
	return &ImageStore{images: make(map[string]*imageEntry)}
}

func (s *ImageStore) entry(id string) *imageEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.images[id]
	if !ok {
		e = &imageEntry{
			metadata:  reactive.NewValue[*ImageMetadata](nil),
			streaming: reactive.NewValue(false),
			data:      reactive.NewValue[*Volume](nil),
		}
		s.images[id] = e
	}
	return e
}

// Metadata returns the metadata of an image, or nil when it is not loaded
func (s *ImageStore) Metadata(id string) *ImageMetadata { return s.entry(id).metadata.Get() }

// SetMetadata replaces the metadata of an image
func (s *ImageStore) SetMetadata(id string, md *ImageMetadata) { s.entry(id).metadata.Set(md) }

// SubscribeMetadata notifies fn when the metadata of id is replaced
func (s *ImageStore) SubscribeMetadata(id string, fn func(*ImageMetadata)) func() {
	return s.entry(id).metadata.Subscribe(fn)
}

// Streaming reports whether chunks of the image are still arriving
func (s *ImageStore) Streaming(id string) bool { return s.entry(id).streaming.Get() }

// SetStreaming updates the streaming flag of an image
func (s *ImageStore) SetStreaming(id string, streaming bool) { s.entry(id).streaming.Set(streaming) }

// SubscribeStreaming notifies fn when the streaming flag of id flips
func (s *ImageStore) SubscribeStreaming(id string, fn func(bool)) func() {
	return s.entry(id).streaming.Subscribe(fn)
}

// Data returns the voxel data of an image, or nil when it is not loaded
func (s *ImageStore) Data(id string) *Volume { return s.entry(id).data.Get() }

// SetData replaces the voxel data of an image
func (s *ImageStore) SetData(id string, v *Volume) { s.entry(id).data.Set(v) }

// SubscribeData notifies fn when the voxel data of id is replaced
func (s *ImageStore) SubscribeData(id string, fn func(*Volume)) func() {
	return s.entry(id).data.Subscribe(fn)
}

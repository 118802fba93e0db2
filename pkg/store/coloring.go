package store

import (
	"slices"
	"sync"

	"segvolrender/internal/models"
	"segvolrender/pkg/reactive"
)

type viewKey struct {
	view, target string
}

// ColoringConfigStore holds the per-view cinematic and layer configuration.
// Cinematic parameters are keyed by (view, parent image), layer settings by
// (view, segmentation).
type ColoringConfigStore struct {
	mu        sync.Mutex
	cinematic map[viewKey]*reactive.Value[*models.CinematicParams]
	layers    map[viewKey]*reactive.Value[*models.LayerConfig]
}

// NewColoringConfigStore creates an empty store
func NewColoringConfigStore() *ColoringConfigStore {
	return &ColoringConfigStore{
		cinematic: make(map[viewKey]*reactive.Value[*models.CinematicParams]),
		layers:    make(map[viewKey]*reactive.Value[*models.LayerConfig]),
	}
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *ColoringConfigStore) cinematicValue(viewID, imageID string) *reactive.Value[*models.CinematicParams] {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := viewKey{viewID, imageID}
	v, ok := s.cinematic[k]
	if !ok {
		v = reactive.NewValueFunc[*models.CinematicParams](nil, equalPtr[models.CinematicParams])
		s.cinematic[k] = v
	}
	return v
}

func (s *ColoringConfigStore) layerValue(viewID, segmentationID string) *reactive.Value[*models.LayerConfig] {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := viewKey{viewID, segmentationID}
	v, ok := s.layers[k]
	if !ok {
		v = reactive.NewValueFunc[*models.LayerConfig](nil, equalPtr[models.LayerConfig])
		s.layers[k] = v
	}
	return v
}

// Cinematic returns the cinematic parameters of a view and image, or nil when unset
func (s *ColoringConfigStore) Cinematic(viewID, imageID string) *models.CinematicParams {
	return s.cinematicValue(viewID, imageID).Get()
}

// SetCinematic stores a copy of the cinematic parameters of a view and image
func (s *ColoringConfigStore) SetCinematic(viewID, imageID string, p models.CinematicParams) {
	s.cinematicValue(viewID, imageID).Set(&p)
}

// ClearCinematic removes the cinematic parameters of a view and image
func (s *ColoringConfigStore) ClearCinematic(viewID, imageID string) {
	s.cinematicValue(viewID, imageID).Set(nil)
}

// SubscribeCinematic notifies fn when the cinematic parameters change
func (s *ColoringConfigStore) SubscribeCinematic(viewID, imageID string, fn func(*models.CinematicParams)) func() {
	return s.cinematicValue(viewID, imageID).Subscribe(fn)
}

// Layer returns the layer configuration of a view and segmentation,
// falling back to models.DefaultLayerConfig.
func (s *ColoringConfigStore) Layer(viewID, segmentationID string) models.LayerConfig {
	if c := s.layerValue(viewID, segmentationID).Get(); c != nil {
		return *c
	}
	return models.DefaultLayerConfig()
}

// SetLayer stores the layer configuration of a view and segmentation
func (s *ColoringConfigStore) SetLayer(viewID, segmentationID string, c models.LayerConfig) {
	s.layerValue(viewID, segmentationID).Set(&c)
}

// SubscribeLayer notifies fn when the layer configuration changes
func (s *ColoringConfigStore) SubscribeLayer(viewID, segmentationID string, fn func(models.LayerConfig)) func() {
	return s.layerValue(viewID, segmentationID).Subscribe(func(c *models.LayerConfig) {
		if c == nil {
			fn(models.DefaultLayerConfig())
			return
		}
		fn(*c)
	})
}

// CropStore holds the clip planes derived for each parent image
type CropStore struct {
	mu     sync.Mutex
	planes map[string]*reactive.Value[[]models.ClipPlane]
}

// NewCropStore creates an empty store
func NewCropStore() *CropStore {
	return &CropStore{planes: make(map[string]*reactive.Value[[]models.ClipPlane])}
}

func (s *CropStore) value(imageID string) *reactive.Value[[]models.ClipPlane] {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.planes[imageID]
	if !ok {
		v = reactive.NewValueFunc[[]models.ClipPlane](nil, slices.Equal[[]models.ClipPlane])
		s.planes[imageID] = v
	}
	return v
}

// Planes returns the clip planes of an image
func (s *CropStore) Planes(imageID string) []models.ClipPlane {
	return slices.Clone(s.value(imageID).Get())
}

// SetPlanes replaces the clip planes of an image
func (s *CropStore) SetPlanes(imageID string, planes []models.ClipPlane) {
	s.value(imageID).Set(slices.Clone(planes))
}

// SubscribePlanes notifies fn when the clip planes of an image change
func (s *CropStore) SubscribePlanes(imageID string, fn func([]models.ClipPlane)) func() {
	return s.value(imageID).Subscribe(fn)
}

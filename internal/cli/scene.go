package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"segvolrender/internal/models"
	"segvolrender/pkg/config"
	"segvolrender/pkg/render"
	"segvolrender/pkg/representation"
	"segvolrender/pkg/store"
	"segvolrender/pkg/visualization"
)

// scene is a configuration loaded into live stores and a view
type scene struct {
	cfg    *config.Config
	view   *render.View
	stores representation.Stores
	image  *store.Volume
}

// loadScene reads a scene file and populates the stores from it
func loadScene(path string) (*scene, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if cfg.View.ID == "" {
		cfg.View.ID = uuid.NewString()
	}
	return newScene(cfg), nil
}

func newScene(cfg *config.Config) *scene {
	s := &scene{
		cfg:  cfg,
		view: render.NewView(cfg.View.ID),
		stores: representation.Stores{
			Segmentations: store.NewSegmentationStore(),
			Images:        store.NewImageStore(),
			Coloring:      store.NewColoringConfigStore(),
			Crop:          store.NewCropStore(),
		},
	}
	s.view.Animating.Set(cfg.View.Animating)

	dims := [3]int{1, 1, 1}
	if len(cfg.Image.Dims) == 3 {
		dims = [3]int{cfg.Image.Dims[0], cfg.Image.Dims[1], cfg.Image.Dims[2]}
	}
	s.image = store.NewVolume(dims, cfg.Image.Spacing)

	images := s.stores.Images
	images.SetMetadata(cfg.Image.ID, &store.ImageMetadata{
		WorldBounds: cfg.WorldBounds(),
		Spacing:     cfg.Image.Spacing,
	})
	images.SetData(cfg.Image.ID, s.image)
	images.SetStreaming(cfg.Image.ID, cfg.Image.Streaming)
	s.stores.Coloring.SetCinematic(cfg.View.ID, cfg.Image.ID, cfg.Cinematic)

	planes := make([]models.ClipPlane, 0, len(cfg.Crop))
	for _, p := range cfg.Crop {
		planes = append(planes, p.ClipPlane())
	}
	s.stores.Crop.SetPlanes(cfg.Image.ID, planes)

	for _, sc := range cfg.Segmentations {
		md := sc.Metadata()
		values := make([]int, 0, len(sc.Segments)+1)
		values = append(values, 0)
		for _, seg := range md.Segments() {
			values = append(values, seg.Value)
		}
		labelmap := store.NewVolume(dims, cfg.Image.Spacing)
		labelmap.Scalars = visualization.SlabLabelmap(dims[0], dims[1], dims[2], values)

		s.stores.Segmentations.SetData(sc.ID, labelmap)
		s.stores.Segmentations.SetMetadata(sc.ID, md)
		s.stores.Coloring.SetLayer(cfg.View.ID, sc.ID, sc.LayerConfig())
	}
	return s
}

// segmentation returns the entry named id, or the first one when id is empty
func (s *scene) segmentation(id string) (config.SegmentationConfig, error) {
	if len(s.cfg.Segmentations) == 0 {
		return config.SegmentationConfig{}, fmt.Errorf("scene has no segmentations")
	}
	if id == "" {
		return s.cfg.Segmentations[0], nil
	}
	for _, sc := range s.cfg.Segmentations {
		if sc.ID == id {
			return sc, nil
		}
	}
	return config.SegmentationConfig{}, fmt.Errorf("segmentation %q not found", id)
}

// bind creates the coordinator for one segmentation of the scene
func (s *scene) bind(segmentationID string, labelFilter int, logger *log.Logger) *representation.Coordinator {
	if labelFilter <= 0 {
		labelFilter = s.cfg.Rendering.LabelFilter
	}
	return representation.New(s.view, s.stores, segmentationID, representation.Options{
		LabelFilter:           labelFilter,
		StreamingSampleFactor: s.cfg.Rendering.StreamingSampleFactor,
		Logger:                logger,
	})
}

// Package config provides scene configuration loading and management for segvolrender.
// It handles loading configuration from YAML or TOML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"segvolrender/internal/models"
	"segvolrender/pkg/cinematic"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// SegmentationConfig describes one segmentation layer of the scene
type SegmentationConfig struct {
	// ID identifies the segmentation in the stores
	ID string `yaml:"id" toml:"id"`

	// ParentImageID defaults to the scene image
	ParentImageID string `yaml:"parentImageId,omitempty" toml:"parentImageId"`

	// Segments lists the labels of the segmentation
	Segments []models.Segment `yaml:"segments" toml:"segments"`

	// Layer is the view's blend configuration; nil means visible at full opacity
	Layer *models.LayerConfig `yaml:"layer,omitempty" toml:"layer"`
}

// PlaneConfig is a crop plane as origin and normal triples
type PlaneConfig struct {
	Origin []float64 `yaml:"origin" toml:"origin"`
	Normal []float64 `yaml:"normal" toml:"normal"`
}

// Config represents one rendered scene loaded from YAML or TOML
type Config struct {
	// View parameters
	View struct {
		// ID identifies the view in per-view configuration
		ID string `yaml:"id" toml:"id"`

		// Animating starts the view in camera animation
		Animating bool `yaml:"animating" toml:"animating"`
	} `yaml:"view" toml:"view"`

	// Parent image parameters
	Image struct {
		ID string `yaml:"id" toml:"id"`

		// Bounds is the world bounding box as xmin, xmax, ymin, ymax, zmin, zmax
		Bounds []float64 `yaml:"bounds" toml:"bounds"`

		// Spacing is the voxel spacing in world units
		Spacing []float64 `yaml:"spacing" toml:"spacing"`

		// Dims is the voxel grid size
		Dims []int `yaml:"dims" toml:"dims"`

		// Streaming marks the image as still loading
		Streaming bool `yaml:"streaming" toml:"streaming"`
	} `yaml:"image" toml:"image"`

	Segmentations []SegmentationConfig `yaml:"segmentations" toml:"segmentations"`

	Cinematic models.CinematicParams `yaml:"cinematic" toml:"cinematic"`

	Crop []PlaneConfig `yaml:"crop,omitempty" toml:"crop"`

	// Rendering parameters
	Rendering struct {
		// LabelFilter restricts rendering to one segment value; 0 renders all
		LabelFilter int `yaml:"labelFilter" toml:"labelFilter"`

		// StreamingSampleFactor multiplies the sample distance while streaming
		StreamingSampleFactor float64 `yaml:"streamingSampleFactor" toml:"streamingSampleFactor"`
	} `yaml:"rendering" toml:"rendering"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.View.ID = "view-3d"

	cfg.Image.ID = "image"
	cfg.Image.Bounds = []float64{0, 64, 0, 64, 0, 64}
	cfg.Image.Spacing = []float64{1, 1, 1}
	cfg.Image.Dims = []int{64, 64, 64}

	// Cinematic rendering is opt-in
	cfg.Cinematic = models.CinematicParams{
		Enabled:                         false,
		LightFollowsCamera:              true,
		Ambient:                         0.4,
		Diffuse:                         1.0,
		Specular:                        0.2,
		VolumetricScatteringBlending:    0.5,
		VolumeQuality:                   2,
		UseLocalAmbientOcclusion:        true,
		UseVolumetricScatteringBlending: false,
		LAOKernelRadius:                 10,
		LAOKernelSize:                   15,
	}

	cfg.Rendering.StreamingSampleFactor = cinematic.DefaultStreamingSampleFactor

	return cfg
}

// LoadConfig loads configuration from a YAML or TOML file, chosen by extension.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize fills derived defaults left empty by the file
func (cfg *Config) normalize() {
	for i := range cfg.Segmentations {
		if cfg.Segmentations[i].ParentImageID == "" {
			cfg.Segmentations[i].ParentImageID = cfg.Image.ID
		}
	}
	if cfg.Rendering.StreamingSampleFactor <= 0 {
		cfg.Rendering.StreamingSampleFactor = cinematic.DefaultStreamingSampleFactor
	}
}

// Validate checks the scene for inconsistent segment definitions
func (cfg *Config) Validate() error {
	if cfg.Image.Bounds != nil && len(cfg.Image.Bounds) != 6 {
		return fmt.Errorf("%w: image bounds need 6 values, got %d", ErrInvalidConfig, len(cfg.Image.Bounds))
	}
	if cfg.Image.Dims != nil && len(cfg.Image.Dims) != 3 {
		return fmt.Errorf("%w: image dims need 3 values, got %d", ErrInvalidConfig, len(cfg.Image.Dims))
	}
	for _, d := range cfg.Image.Dims {
		if d <= 0 {
			return fmt.Errorf("%w: image dims must be positive, got %v", ErrInvalidConfig, cfg.Image.Dims)
		}
	}
	seen := make(map[string]bool)
	for _, sc := range cfg.Segmentations {
		if sc.ID == "" {
			return fmt.Errorf("%w: segmentation without id", ErrInvalidConfig)
		}
		if seen[sc.ID] {
			return fmt.Errorf("%w: duplicate segmentation %q", ErrInvalidConfig, sc.ID)
		}
		seen[sc.ID] = true

		values := make(map[int]bool)
		for _, s := range sc.Segments {
			if s.ID <= 0 {
				return fmt.Errorf("%w: segmentation %q: segment id %d must be positive", ErrInvalidConfig, sc.ID, s.ID)
			}
			if values[s.Value] {
				return fmt.Errorf("%w: segmentation %q: duplicate segment value %d", ErrInvalidConfig, sc.ID, s.Value)
			}
			values[s.Value] = true
		}
	}
	for i, p := range cfg.Crop {
		if len(p.Origin) != 3 || len(p.Normal) != 3 {
			return fmt.Errorf("%w: crop plane %d needs 3-component origin and normal", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Metadata converts a segmentation entry into store metadata
func (sc SegmentationConfig) Metadata() *models.SegmentationMetadata {
	return models.NewSegmentationMetadata(sc.ParentImageID, sc.Segments)
}

// LayerConfig returns the configured layer or the default one
func (sc SegmentationConfig) LayerConfig() models.LayerConfig {
	if sc.Layer == nil {
		return models.DefaultLayerConfig()
	}
	return *sc.Layer
}

// ClipPlane converts the entry into a crop plane
func (p PlaneConfig) ClipPlane() models.ClipPlane {
	var c models.ClipPlane
	if len(p.Origin) == 3 {
		c.Origin = r3.Vec{X: p.Origin[0], Y: p.Origin[1], Z: p.Origin[2]}
	}
	if len(p.Normal) == 3 {
		c.Normal = r3.Unit(r3.Vec{X: p.Normal[0], Y: p.Normal[1], Z: p.Normal[2]})
	}
	return c
}

// WorldBounds returns the image bounds, or nil when none are configured
func (cfg *Config) WorldBounds() *models.Bounds {
	b, ok := models.BoundsFromSlice(cfg.Image.Bounds)
	if !ok {
		return nil
	}
	return &b
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

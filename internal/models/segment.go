package models

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// RGB is an 8-bit per channel segment color
type RGB struct {
	R uint8 `yaml:"r" toml:"r"`
	G uint8 `yaml:"g" toml:"g"`
	B uint8 `yaml:"b" toml:"b"`
}

// Normalized returns the color scaled into the 0-1 range used by transfer functions
func (c RGB) Normalized() [3]float64 {
	return [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// Segment is one labeled structure inside a segmentation volume
type Segment struct {
	// ID is the positive label identifier of the segment
	ID int `yaml:"id" toml:"id"`

	// Value is the voxel value the segment is rendered under
	Value int `yaml:"value" toml:"value"`

	// Visible controls whether the segment takes part in rendering
	Visible bool `yaml:"visible" toml:"visible"`

	// Color is the display color of the segment
	Color RGB `yaml:"color" toml:"color"`
}

// SegmentationMetadata describes the segments of one labelmap volume
type SegmentationMetadata struct {
	// ParentImageID is the id of the grayscale image the labelmap is registered to
	ParentImageID string

	// Order lists segment ids in rendering order
	Order []int

	// ByValue maps a voxel value to its segment
	ByValue map[int]Segment
}

// NewSegmentationMetadata builds metadata from an ordered list of segments
func NewSegmentationMetadata(parentImageID string, segments []Segment) *SegmentationMetadata {
	md := &SegmentationMetadata{
		ParentImageID: parentImageID,
		Order:         make([]int, 0, len(segments)),
		ByValue:       make(map[int]Segment, len(segments)),
	}
	for _, s := range segments {
		md.Order = append(md.Order, s.ID)
		md.ByValue[s.Value] = s
	}
	return md
}

// Segments returns every segment sorted by value
func (md *SegmentationMetadata) Segments() []Segment {
	if md == nil {
		return nil
	}
	out := make([]Segment, 0, len(md.ByValue))
	for _, s := range md.ByValue {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Extent is an axis-aligned voxel region (xmin, xmax, ymin, ymax, zmin, zmax)
type Extent [6]int

// Bounds is an axis-aligned world-space box
type Bounds struct {
	Min, Max r3.Vec
}

// BoundsFromSlice converts a (xmin, xmax, ymin, ymax, zmin, zmax) tuple.
// It returns false when the slice does not hold six values.
func BoundsFromSlice(b []float64) (Bounds, bool) {
	if len(b) != 6 {
		return Bounds{}, false
	}
	return Bounds{
		Min: r3.Vec{X: b[0], Y: b[2], Z: b[4]},
		Max: r3.Vec{X: b[1], Y: b[3], Z: b[5]},
	}, true
}

// Center returns the midpoint of the box
func (b Bounds) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// ClipPlane is a crop plane given by an origin and an inward normal
type ClipPlane struct {
	Origin r3.Vec
	Normal r3.Vec
}

// CinematicParams holds the cinematic volume rendering settings of a view and image
type CinematicParams struct {
	Enabled                         bool    `yaml:"enabled" toml:"enabled"`
	LightFollowsCamera              bool    `yaml:"lightFollowsCamera" toml:"lightFollowsCamera"`
	Ambient                         float64 `yaml:"ambient" toml:"ambient"`
	Diffuse                         float64 `yaml:"diffuse" toml:"diffuse"`
	Specular                        float64 `yaml:"specular" toml:"specular"`
	VolumetricScatteringBlending    float64 `yaml:"volumetricScatteringBlending" toml:"volumetricScatteringBlending"`
	VolumeQuality                   float64 `yaml:"volumeQuality" toml:"volumeQuality"`
	UseLocalAmbientOcclusion        bool    `yaml:"useLocalAmbientOcclusion" toml:"useLocalAmbientOcclusion"`
	UseVolumetricScatteringBlending bool    `yaml:"useVolumetricScatteringBlending" toml:"useVolumetricScatteringBlending"`
	LAOKernelRadius                 float64 `yaml:"laoKernelRadius" toml:"laoKernelRadius"`
	LAOKernelSize                   float64 `yaml:"laoKernelSize" toml:"laoKernelSize"`
}

// LayerConfig is the per view blend configuration of a segmentation layer
type LayerConfig struct {
	// Visible hides the whole layer when false
	Visible bool `yaml:"visible" toml:"visible"`

	// Opacity scales the opacity of every segment of the layer
	Opacity float64 `yaml:"opacity" toml:"opacity"`
}

// DefaultLayerConfig is used when a view has no explicit layer configuration
func DefaultLayerConfig() LayerConfig {
	return LayerConfig{Visible: true, Opacity: 1}
}

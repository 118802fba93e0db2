// Package transfer builds the label transfer functions of a segmentation.
//
// Every rendered segment value V becomes an isolated spike: opacity 1 and the
// segment color at V, flanked by black zero-opacity brackets at V-0.1 and
// V+0.1. Label values are integers, so spikes of neighbouring labels never
// overlap and sampling between two labels never picks up either color.
package transfer

import (
	"errors"
	"sort"

	"segvolrender/internal/models"
	"segvolrender/pkg/render"
)

// BracketOffset is the distance of the zero-opacity brackets from a label value
const BracketOffset = 0.1

// ErrNoMetadata is returned by Apply when there is no segmentation metadata
var ErrNoMetadata = errors.New("transfer: segmentation metadata unavailable")

// Point is one control point shared by the color and opacity functions
type Point struct {
	X       float64
	RGB     [3]float64
	Opacity float64
}

// Select returns the segments that render under the given label filter,
// sorted by value. A filter <= 0 selects every visible segment. Values <= 0
// are background and never selected.
func Select(md *models.SegmentationMetadata, filter int) []models.Segment {
	if md == nil {
		return nil
	}
	selected := make([]models.Segment, 0, len(md.ByValue))
	for value, seg := range md.ByValue {
		if value <= 0 || !seg.Visible {
			continue
		}
		if filter > 0 && value != filter {
			continue
		}
		selected = append(selected, seg)
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].Value < selected[j].Value })
	return selected
}

// Count returns the number of segments Select would return
func Count(md *models.SegmentationMetadata, filter int) int {
	if md == nil {
		return 0
	}
	n := 0
	for value, seg := range md.ByValue {
		if value > 0 && seg.Visible && (filter <= 0 || value == filter) {
			n++
		}
	}
	return n
}

// Build returns the ordered control points for the selected segments.
// The first point is always the transparent background at 0.
func Build(md *models.SegmentationMetadata, filter int) []Point {
	selected := Select(md, filter)
	points := make([]Point, 0, 1+3*len(selected))
	points = append(points, Point{X: 0})
	for _, seg := range selected {
		v := float64(seg.Value)
		// the left bracket of label 1 would sit next to the background point
		if seg.Value > 1 {
			points = append(points, Point{X: v - BracketOffset})
		}
		points = append(points,
			Point{X: v, RGB: seg.Color.Normalized(), Opacity: 1},
			Point{X: v + BracketOffset},
		)
	}
	return points
}

// Apply rebuilds the first component's color and opacity functions of prop.
// Without metadata prop is left untouched and ErrNoMetadata is returned.
func Apply(prop *render.VolumeProperty, md *models.SegmentationMetadata, filter int) error {
	if md == nil {
		return ErrNoMetadata
	}
	points := Build(md, filter)

	color := prop.RGBTransferFunction(0)
	opacity := prop.ScalarOpacity(0)
	color.RemoveAllPoints()
	opacity.RemoveAllPoints()
	for _, p := range points {
		color.AddRGBPoint(p.X, p.RGB[0], p.RGB[1], p.RGB[2])
		opacity.AddPoint(p.X, p.Opacity)
	}
	color.Modified()
	opacity.Modified()
	prop.Modified()
	return nil
}

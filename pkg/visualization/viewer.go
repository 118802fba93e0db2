// Package visualization renders labelmap slices through a representation's
// transfer functions, for inspecting label colors and isolation offline.
package visualization

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"segvolrender/pkg/render"
)

// ErrInvalidAxis is returned for axes other than x, y and z
var ErrInvalidAxis = errors.New("invalid axis (must be x, y, or z)")

// Viewer extracts 2D slices from a labelmap and colors them with the
// transfer functions of a volume property
type Viewer struct {
	// labels holds the voxel label values in x-fastest order
	labels []float64

	// dimensions of the volume
	width  int
	height int
	depth  int

	// property supplies the color and opacity functions
	property *render.VolumeProperty
}

// NewViewer creates a slice viewer over labels using prop's first component
func NewViewer(labels []float64, width, height, depth int, prop *render.VolumeProperty) *Viewer {
	return &Viewer{
		labels:   labels,
		width:    width,
		height:   height,
		depth:    depth,
		property: prop,
	}
}

// shade maps one label value to a straight-alpha color
func (v *Viewer) shade(label float64) color.NRGBA {
	rgb := v.property.RGBTransferFunction(0).Evaluate(label)
	a := v.property.ScalarOpacity(0).Evaluate(label) * v.property.OpacityScale()
	return color.NRGBA{
		R: toByte(rgb[0]),
		G: toByte(rgb[1]),
		B: toByte(rgb[2]),
		A: toByte(a),
	}
}

func toByte(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// ExtractSlice colors the slice at position along axis
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var (
		img *image.NRGBA
		at  func(i, j int) int
	)
	switch strings.ToLower(axis) {
	case "x":
		// YZ plane
		if position >= v.width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.width)
		}
		img = image.NewNRGBA(image.Rect(0, 0, v.depth, v.height))
		at = func(z, y int) int { return z*v.width*v.height + y*v.width + position }

	case "y":
		// XZ plane
		if position >= v.height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.height)
		}
		img = image.NewNRGBA(image.Rect(0, 0, v.width, v.depth))
		at = func(x, z int) int { return z*v.width*v.height + position*v.width + x }

	case "z":
		// XY plane
		if position >= v.depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.depth)
		}
		img = image.NewNRGBA(image.Rect(0, 0, v.width, v.height))
		at = func(x, y int) int { return position*v.width*v.height + y*v.width + x }

	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidAxis, axis)
	}

	b := img.Bounds()
	for j := 0; j < b.Dy(); j++ {
		for i := 0; i < b.Dx(); i++ {
			if idx := at(i, j); idx < len(v.labels) {
				img.SetNRGBA(i, j, v.shade(v.labels[idx]))
			}
		}
	}
	return img, nil
}

// SaveSlice writes a slice as PNG, or as JPEG composited over black when
// the filename ends in .jpg or .jpeg
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		flat := image.NewRGBA(img.Bounds())
		draw.Draw(flat, flat.Bounds(), image.Black, image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
		return jpeg.Encode(file, flat, &jpeg.Options{Quality: 90})
	default:
		return png.Encode(file, img)
	}
}

// SaveSliceSequence writes every slice along axis into outputDir as PNG
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	var maxPos int
	switch strings.ToLower(axis) {
	case "x":
		maxPos = v.width
	case "y":
		maxPos = v.height
	case "z":
		maxPos = v.depth
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAxis, axis)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// SlabLabelmap builds a width x height x depth labelmap split along z into
// one equal slab per value, in order
func SlabLabelmap(width, height, depth int, values []int) []float64 {
	labels := make([]float64, width*height*depth)
	if len(values) == 0 || depth == 0 {
		return labels
	}
	plane := width * height
	for z := 0; z < depth; z++ {
		value := float64(values[z*len(values)/depth])
		for i := 0; i < plane; i++ {
			labels[z*plane+i] = value
		}
	}
	return labels
}

// Package render models the volume rendering pipeline objects the
// representation layer drives: transfer functions, the volume property,
// the mapper, the actor and the view that owns the renderer.
//
// Objects are mutated in place and never replaced. Point and parameter
// changes are applied first and published with a single Modified call, so a
// renderer reading MTime never observes a half-built function.
package render

import "sort"

// ColorPoint is one control point of a color transfer function
type ColorPoint struct {
	X   float64
	RGB [3]float64
}

// ColorTransferFunction maps scalar values to RGB by piecewise-linear interpolation
type ColorTransferFunction struct {
	points []ColorPoint
	mtime  uint64
}

// NewColorTransferFunction creates an empty color transfer function
func NewColorTransferFunction() *ColorTransferFunction {
	return &ColorTransferFunction{}
}

// RemoveAllPoints clears every control point
func (f *ColorTransferFunction) RemoveAllPoints() {
	f.points = f.points[:0]
}

// AddRGBPoint inserts a control point keeping the points sorted by X.
// A point at an existing X replaces the old one.
func (f *ColorTransferFunction) AddRGBPoint(x, r, g, b float64) {
	i := sort.Search(len(f.points), func(i int) bool { return f.points[i].X >= x })
	p := ColorPoint{X: x, RGB: [3]float64{r, g, b}}
	if i < len(f.points) && f.points[i].X == x {
		f.points[i] = p
		return
	}
	f.points = append(f.points, ColorPoint{})
	copy(f.points[i+1:], f.points[i:])
	f.points[i] = p
}

// Points returns a copy of the control points in ascending X order
func (f *ColorTransferFunction) Points() []ColorPoint {
	out := make([]ColorPoint, len(f.points))
	copy(out, f.points)
	return out
}

// Size returns the number of control points
func (f *ColorTransferFunction) Size() int { return len(f.points) }

// Evaluate returns the interpolated color at x, clamped to the end points
func (f *ColorTransferFunction) Evaluate(x float64) [3]float64 {
	n := len(f.points)
	if n == 0 {
		return [3]float64{}
	}
	if x <= f.points[0].X {
		return f.points[0].RGB
	}
	if x >= f.points[n-1].X {
		return f.points[n-1].RGB
	}
	i := sort.Search(n, func(i int) bool { return f.points[i].X >= x })
	lo, hi := f.points[i-1], f.points[i]
	t := (x - lo.X) / (hi.X - lo.X)
	var rgb [3]float64
	for c := range rgb {
		rgb[c] = lo.RGB[c] + t*(hi.RGB[c]-lo.RGB[c])
	}
	return rgb
}

// Modified publishes pending point changes
func (f *ColorTransferFunction) Modified() { f.mtime++ }

// MTime returns the number of published modifications
func (f *ColorTransferFunction) MTime() uint64 { return f.mtime }

// OpacityPoint is one control point of a scalar opacity function
type OpacityPoint struct {
	X, Y float64
}

// PiecewiseFunction maps scalar values to opacity
type PiecewiseFunction struct {
	points []OpacityPoint
	mtime  uint64
}

// NewPiecewiseFunction creates an empty opacity function
func NewPiecewiseFunction() *PiecewiseFunction {
	return &PiecewiseFunction{}
}

// RemoveAllPoints clears every control point
func (f *PiecewiseFunction) RemoveAllPoints() {
	f.points = f.points[:0]
}

// AddPoint inserts a control point keeping the points sorted by X
func (f *PiecewiseFunction) AddPoint(x, y float64) {
	i := sort.Search(len(f.points), func(i int) bool { return f.points[i].X >= x })
	p := OpacityPoint{X: x, Y: y}
	if i < len(f.points) && f.points[i].X == x {
		f.points[i] = p
		return
	}
	f.points = append(f.points, OpacityPoint{})
	copy(f.points[i+1:], f.points[i:])
	f.points[i] = p
}

// Points returns a copy of the control points in ascending X order
func (f *PiecewiseFunction) Points() []OpacityPoint {
	out := make([]OpacityPoint, len(f.points))
	copy(out, f.points)
	return out
}

// Size returns the number of control points
func (f *PiecewiseFunction) Size() int { return len(f.points) }

// Evaluate returns the interpolated opacity at x, clamped to the end points
func (f *PiecewiseFunction) Evaluate(x float64) float64 {
	n := len(f.points)
	if n == 0 {
		return 0
	}
	if x <= f.points[0].X {
		return f.points[0].Y
	}
	if x >= f.points[n-1].X {
		return f.points[n-1].Y
	}
	i := sort.Search(n, func(i int) bool { return f.points[i].X >= x })
	lo, hi := f.points[i-1], f.points[i]
	return lo.Y + (x-lo.X)/(hi.X-lo.X)*(hi.Y-lo.Y)
}

// Modified publishes pending point changes
func (f *PiecewiseFunction) Modified() { f.mtime++ }

// MTime returns the number of published modifications
func (f *PiecewiseFunction) MTime() uint64 { return f.mtime }

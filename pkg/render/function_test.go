package render

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

// TestAddRGBPointKeepsOrder verifies points are sorted and duplicates replaced
func TestAddRGBPointKeepsOrder(t *testing.T) {
	f := NewColorTransferFunction()
	f.AddRGBPoint(2, 0, 1, 0)
	f.AddRGBPoint(0, 0, 0, 0)
	f.AddRGBPoint(1, 1, 0, 0)
	f.AddRGBPoint(1, 0, 0, 1)

	points := f.Points()
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	for i, want := range []float64{0, 1, 2} {
		if points[i].X != want {
			t.Errorf("Point %d: expected x %v, got %v", i, want, points[i].X)
		}
	}
	if points[1].RGB != [3]float64{0, 0, 1} {
		t.Errorf("Expected replaced point to be blue, got %v", points[1].RGB)
	}
	if f.MTime() != 0 {
		t.Errorf("Adding points must not publish a modification, got mtime %d", f.MTime())
	}
}

// TestEvaluateInterpolates verifies linear interpolation and end clamping
func TestEvaluateInterpolates(t *testing.T) {
	f := NewColorTransferFunction()
	f.AddRGBPoint(0, 0, 0, 0)
	f.AddRGBPoint(1, 1, 0.5, 0)

	testCases := []struct {
		x    float64
		want [3]float64
	}{
		{-1, [3]float64{0, 0, 0}},
		{0.5, [3]float64{0.5, 0.25, 0}},
		{1, [3]float64{1, 0.5, 0}},
		{3, [3]float64{1, 0.5, 0}},
	}
	for _, tc := range testCases {
		got := f.Evaluate(tc.x)
		if !floats.EqualApprox(got[:], tc.want[:], 1e-12) {
			t.Errorf("Evaluate(%v): expected %v, got %v", tc.x, tc.want, got)
		}
	}

	o := NewPiecewiseFunction()
	if o.Evaluate(4) != 0 {
		t.Errorf("Expected empty opacity function to evaluate to 0")
	}
	o.AddPoint(0, 0)
	o.AddPoint(2, 1)
	if v := o.Evaluate(1.5); v != 0.75 {
		t.Errorf("Expected opacity 0.75, got %v", v)
	}
}

// TestSettersReportChanges verifies redundant sets do not bump modification times
func TestSettersReportChanges(t *testing.T) {
	m := NewVolumeMapper()
	if !m.SetSampleDistance(2) {
		t.Error("Expected first SetSampleDistance to report a change")
	}
	before := m.MTime()
	if m.SetSampleDistance(2) {
		t.Error("Expected repeated SetSampleDistance to report no change")
	}
	if m.MTime() != before {
		t.Errorf("Expected mtime %d, got %d", before, m.MTime())
	}

	rep := NewLabelmapRepresentation()
	if rep.Property.Interpolation() != InterpolationNearest {
		t.Error("Expected labelmap representation to sample with nearest interpolation")
	}
	if rep.Actor.Property != rep.Property || rep.Actor.Mapper != rep.Mapper {
		t.Error("Expected actor to reference the representation's property and mapper")
	}
}

// TestTakeUpdatedExtents verifies the renderer drains the extent queue
func TestTakeUpdatedExtents(t *testing.T) {
	m := NewVolumeMapper()
	m.AppendUpdatedExtents()
	if m.MTime() != 0 {
		t.Error("Expected appending nothing to leave the mapper unmodified")
	}
	m.AppendUpdatedExtents([6]int{0, 1, 0, 1, 0, 1}, [6]int{2, 3, 2, 3, 2, 3})
	if got := len(m.TakeUpdatedExtents()); got != 2 {
		t.Errorf("Expected 2 extents, got %d", got)
	}
	if got := len(m.UpdatedExtents()); got != 0 {
		t.Errorf("Expected empty queue after take, got %d", got)
	}
}

package transfer

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"segvolrender/internal/models"
	"segvolrender/pkg/render"
)

var (
	red   = models.RGB{R: 255}
	green = models.RGB{G: 255}
	blue  = models.RGB{B: 255}
)

func segment(value int, visible bool, color models.RGB) models.Segment {
	return models.Segment{ID: value, Value: value, Visible: visible, Color: color}
}

// TestBuildTwoSegments verifies the spike layout of labels 1 and 2.
// Label 1 has no left bracket: a V-0.1 point is only emitted for V > 1,
// so the background point at 0 is the left edge of its spike.
func TestBuildTwoSegments(t *testing.T) {
	md := models.NewSegmentationMetadata("ct", []models.Segment{
		segment(2, true, green),
		segment(1, true, red),
	})

	points := Build(md, 0)
	want := []Point{
		{X: 0},
		{X: 1, RGB: [3]float64{1, 0, 0}, Opacity: 1},
		{X: 1.1},
		{X: 1.9},
		{X: 2, RGB: [3]float64{0, 1, 0}, Opacity: 1},
		{X: 2.1},
	}
	if len(points) != len(want) {
		t.Fatalf("Expected %d points, got %d: %v", len(want), len(points), points)
	}
	for i := range want {
		if !scalar.EqualWithinAbs(points[i].X, want[i].X, 1e-12) {
			t.Errorf("Point %d: expected x %v, got %v", i, want[i].X, points[i].X)
		}
		if points[i].RGB != want[i].RGB || points[i].Opacity != want[i].Opacity {
			t.Errorf("Point %d: expected %v, got %v", i, want[i], points[i])
		}
	}
}

// TestBuildFirstPointIsBackground verifies the transparent point at 0 for any input
func TestBuildFirstPointIsBackground(t *testing.T) {
	testCases := []struct {
		name string
		md   *models.SegmentationMetadata
	}{
		{"nil", nil},
		{"empty", models.NewSegmentationMetadata("ct", nil)},
		{"hidden", models.NewSegmentationMetadata("ct", []models.Segment{segment(3, false, red)})},
		{"visible", models.NewSegmentationMetadata("ct", []models.Segment{segment(7, true, blue)})},
	}
	for _, tc := range testCases {
		points := Build(tc.md, 0)
		if len(points) == 0 || points[0] != (Point{}) {
			t.Errorf("%s: expected first point (0, black, 0), got %v", tc.name, points)
		}
	}
}

// TestSelectSkipsBackgroundAndHidden verifies the selection rules
func TestSelectSkipsBackgroundAndHidden(t *testing.T) {
	md := models.NewSegmentationMetadata("ct", []models.Segment{
		segment(0, true, red),
		segment(-4, true, red),
		segment(5, false, green),
		segment(9, true, blue),
		segment(3, true, green),
	})

	selected := Select(md, 0)
	if len(selected) != 2 || selected[0].Value != 3 || selected[1].Value != 9 {
		t.Errorf("Expected values [3 9], got %v", selected)
	}
	if Count(md, 0) != 2 {
		t.Errorf("Expected count 2, got %d", Count(md, 0))
	}
	if Count(md, 5) != 0 {
		t.Errorf("Expected hidden filtered segment to count 0, got %d", Count(md, 5))
	}
	if Count(nil, 0) != 0 {
		t.Error("Expected nil metadata to count 0")
	}
}

// TestBuildWithLabelFilter verifies a filter leaves a single spike
func TestBuildWithLabelFilter(t *testing.T) {
	segments := []models.Segment{segment(1, true, red)}
	for v := 2; v <= 20; v++ {
		segments = append(segments, segment(v, true, green))
	}
	md := models.NewSegmentationMetadata("ct", segments)

	points := Build(md, 7)
	if len(points) != 4 {
		t.Fatalf("Expected background plus 3 points, got %d", len(points))
	}
	colored := 0
	for _, p := range points {
		if p.Opacity == 1 {
			colored++
			if p.X != 7 {
				t.Errorf("Expected the only opaque point at 7, got %v", p.X)
			}
		}
	}
	if colored != 1 {
		t.Errorf("Expected 1 opaque point, got %d", colored)
	}

	if got := len(Build(md, 1)); got != 3 {
		t.Errorf("Expected label 1 to produce background, spike and right bracket, got %d points", got)
	}
	if got := len(Build(md, 99)); got != 1 {
		t.Errorf("Expected unknown label to produce only the background, got %d points", got)
	}
}

// TestApplyBatchesModification verifies the functions are rebuilt wholesale
// and published once
func TestApplyBatchesModification(t *testing.T) {
	prop := render.NewVolumeProperty(1)
	color := prop.RGBTransferFunction(0)
	opacity := prop.ScalarOpacity(0)
	color.AddRGBPoint(42, 1, 1, 1)

	md := models.NewSegmentationMetadata("ct", []models.Segment{
		segment(1, true, red),
		segment(2, true, green),
		segment(3, true, blue),
	})
	if err := Apply(prop, md, 0); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if color.MTime() != 1 || opacity.MTime() != 1 || prop.MTime() != 1 {
		t.Errorf("Expected one modification each, got color %d opacity %d property %d",
			color.MTime(), opacity.MTime(), prop.MTime())
	}
	if color.Size() != 9 || opacity.Size() != 9 {
		t.Errorf("Expected 9 points, got color %d opacity %d", color.Size(), opacity.Size())
	}
	for _, p := range color.Points() {
		if p.X == 42 {
			t.Error("Expected stale point to be removed")
		}
	}

	// sampling halfway between two labels never picks up opacity
	for _, x := range []float64{1.5, 2.5, 3.5} {
		if o := opacity.Evaluate(x); o != 0 {
			t.Errorf("Expected opacity 0 between labels at %v, got %v", x, o)
		}
	}
	if rgb := color.Evaluate(2); rgb != [3]float64{0, 1, 0} {
		t.Errorf("Expected green at 2, got %v", rgb)
	}
}

// TestApplyWithoutMetadata verifies existing functions are left untouched
func TestApplyWithoutMetadata(t *testing.T) {
	prop := render.NewVolumeProperty(1)
	prop.RGBTransferFunction(0).AddRGBPoint(5, 1, 0, 0)

	err := Apply(prop, nil, 0)
	if !errors.Is(err, ErrNoMetadata) {
		t.Errorf("Expected ErrNoMetadata, got %v", err)
	}
	if prop.RGBTransferFunction(0).Size() != 1 || prop.MTime() != 0 {
		t.Error("Expected property to be left untouched")
	}
}

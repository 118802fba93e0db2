package visualization

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"segvolrender/internal/models"
	"segvolrender/pkg/render"
	"segvolrender/pkg/transfer"
)

// newTestProperty builds a property with red label 1 and green label 2
func newTestProperty(t *testing.T) *render.VolumeProperty {
	prop := render.NewVolumeProperty(1)
	md := models.NewSegmentationMetadata("ct", []models.Segment{
		{ID: 1, Value: 1, Visible: true, Color: models.RGB{R: 255}},
		{ID: 2, Value: 2, Visible: true, Color: models.RGB{G: 255}},
		{ID: 3, Value: 3, Visible: false, Color: models.RGB{B: 255}},
	})
	if err := transfer.Apply(prop, md, 0); err != nil {
		t.Fatalf("Failed to build transfer function: %v", err)
	}
	return prop
}

// TestSlabLabelmap verifies slabs are laid out along z
func TestSlabLabelmap(t *testing.T) {
	width, height, depth := 2, 2, 6
	labels := SlabLabelmap(width, height, depth, []int{1, 2, 3})
	for z := 0; z < depth; z++ {
		want := float64(z/2 + 1)
		if got := labels[z*width*height]; got != want {
			t.Errorf("Slice %d: expected label %v, got %v", z, want, got)
		}
	}
	if got := SlabLabelmap(2, 2, 2, nil); got[0] != 0 {
		t.Errorf("Expected background without values, got %v", got[0])
	}
}

// TestExtractSliceColors verifies labels are colored without bleed
func TestExtractSliceColors(t *testing.T) {
	width, height, depth := 4, 3, 6
	labels := SlabLabelmap(width, height, depth, []int{0, 1, 2, 3})
	viewer := NewViewer(labels, width, height, depth, newTestProperty(t))

	testCases := []struct {
		z    int
		want color.NRGBA
	}{
		{0, color.NRGBA{}},
		{2, color.NRGBA{R: 255, A: 255}},
		{3, color.NRGBA{G: 255, A: 255}},
		{5, color.NRGBA{}},
	}
	for _, tc := range testCases {
		img, err := viewer.ExtractSlice("z", tc.z)
		if err != nil {
			t.Fatalf("Failed to extract Z slice %d: %v", tc.z, err)
		}
		nrgba, ok := img.(*image.NRGBA)
		if !ok {
			t.Fatalf("Expected *image.NRGBA, got %T", img)
		}
		if got := nrgba.NRGBAAt(1, 1); got != tc.want {
			t.Errorf("Slice %d: expected %v, got %v", tc.z, tc.want, got)
		}
	}

	imgX, err := viewer.ExtractSlice("X", 0)
	if err != nil {
		t.Fatalf("Failed to extract X slice: %v", err)
	}
	if b := imgX.Bounds(); b.Dx() != depth || b.Dy() != height {
		t.Errorf("Expected X slice %dx%d, got %dx%d", depth, height, b.Dx(), b.Dy())
	}
	imgY, err := viewer.ExtractSlice("y", 0)
	if err != nil {
		t.Fatalf("Failed to extract Y slice: %v", err)
	}
	if b := imgY.Bounds(); b.Dx() != width || b.Dy() != depth {
		t.Errorf("Expected Y slice %dx%d, got %dx%d", width, depth, b.Dx(), b.Dy())
	}

	if _, err := viewer.ExtractSlice("w", 0); !errors.Is(err, ErrInvalidAxis) {
		t.Errorf("Expected ErrInvalidAxis, got %v", err)
	}
	if _, err := viewer.ExtractSlice("z", depth); err == nil {
		t.Error("Expected error for out of bounds position, got nil")
	}
	if _, err := viewer.ExtractSlice("z", -1); err == nil {
		t.Error("Expected error for negative position, got nil")
	}
}

// TestOpacityScale verifies the layer opacity scales alpha
func TestOpacityScale(t *testing.T) {
	prop := newTestProperty(t)
	prop.SetOpacityScale(0.5)
	viewer := NewViewer([]float64{2}, 1, 1, 1, prop)
	img, err := viewer.ExtractSlice("z", 0)
	if err != nil {
		t.Fatalf("Failed to extract slice: %v", err)
	}
	if a := img.(*image.NRGBA).NRGBAAt(0, 0).A; a != 128 {
		t.Errorf("Expected alpha 128, got %d", a)
	}
}

// TestSaveSliceSequence verifies slices are written to disk in both formats
func TestSaveSliceSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	tempDir := t.TempDir()
	width, height, depth := 3, 3, 2
	viewer := NewViewer(SlabLabelmap(width, height, depth, []int{1, 2}), width, height, depth, newTestProperty(t))

	outputDir := filepath.Join(tempDir, "slices")
	if err := viewer.SaveSliceSequence("z", outputDir); err != nil {
		t.Fatalf("Failed to save slice sequence: %v", err)
	}
	for z := 0; z < depth; z++ {
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_z_%03d.png", z))
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			t.Errorf("Expected slice file does not exist: %s", filename)
		}
	}

	img, _ := viewer.ExtractSlice("z", 0)
	jpegPath := filepath.Join(tempDir, "slice.jpg")
	if err := viewer.SaveSlice(img, jpegPath); err != nil {
		t.Fatalf("Failed to save JPEG slice: %v", err)
	}
	if _, err := os.Stat(jpegPath); err != nil {
		t.Errorf("Expected JPEG slice on disk: %v", err)
	}

	if err := viewer.SaveSliceSequence("invalid", outputDir); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

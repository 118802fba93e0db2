package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testScene = `
view:
  id: axial
image:
  id: ct
  bounds: [0, 8, 0, 8, 0, 8]
  spacing: [1, 1, 1]
  dims: [4, 4, 8]
segmentations:
  - id: organs
    segments:
      - {id: 1, value: 1, visible: true, color: {r: 255, g: 0, b: 0}}
      - {id: 2, value: 2, visible: true, color: {r: 0, g: 255, b: 0}}
cinematic:
  enabled: true
`

func writeScene(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(testScene), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestLoggerFromContext verifies the default logger fallback
func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("Expected default logger without an attached one")
	}
	l := newLogger(&bytes.Buffer{}, log.DebugLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("Expected attached logger")
	}
}

// TestChunkExtents verifies chunks tile the depth exactly
func TestChunkExtents(t *testing.T) {
	extents := chunkExtents([3]int{4, 4, 10}, 3)
	if len(extents) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(extents))
	}
	next := 0
	for _, e := range extents {
		if e[4] != next {
			t.Errorf("Expected chunk to start at %d, got %d", next, e[4])
		}
		next = e[5] + 1
	}
	if next != 10 {
		t.Errorf("Expected chunks to cover 10 slices, got %d", next)
	}
	if got := len(chunkExtents([3]int{1, 1, 2}, 5)); got != 2 {
		t.Errorf("Expected chunk count capped at depth, got %d", got)
	}
	if chunkExtents([3]int{1, 1, 2}, 0) != nil {
		t.Error("Expected no chunks for n = 0")
	}
}

// TestNewScene verifies the stores are populated from the configuration
func TestNewScene(t *testing.T) {
	s, err := loadScene(writeScene(t))
	if err != nil {
		t.Fatalf("loadScene failed: %v", err)
	}
	if s.stores.Segmentations.Metadata("organs") == nil {
		t.Error("Expected segmentation metadata loaded")
	}
	if s.stores.Coloring.Cinematic("axial", "ct") == nil {
		t.Error("Expected cinematic params loaded")
	}
	if _, err := s.segmentation("missing"); err == nil {
		t.Error("Expected error for unknown segmentation")
	}

	c := s.bind("organs", 0, log.New(&bytes.Buffer{}))
	defer c.Close()
	rep := c.Representation()
	if !rep.Actor.Visible() || rep.Property.RGBTransferFunction(0).Size() != 6 {
		t.Errorf("Expected visible representation with 6 points, got %d", rep.Property.RGBTransferFunction(0).Size())
	}
	if !rep.Property.Shading(0).Shade {
		t.Error("Expected cinematic shading applied")
	}
}

// TestTransferCommand verifies the transfer command prints every control point
func TestTransferCommand(t *testing.T) {
	out, err := run(t, "transfer", writeScene(t), "--label", "2")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	for _, want := range []string{"organs (label filter 2)", "1.9", "2.0", "2.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

// TestPreviewCommand verifies a slice image is written
func TestPreviewCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}
	out := filepath.Join(t.TempDir(), "slice.png")
	if _, err := run(t, "preview", writeScene(t), "--slice", "5", "--out", out); err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected preview image: %v", err)
	}
}

// TestSimulateCommand verifies the replay runs end to end
func TestSimulateCommand(t *testing.T) {
	if _, err := run(t, "simulate", writeScene(t), "--chunks", "4"); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
}

package representation

import "segvolrender/internal/models"

// ShouldShow reports whether a layer's actor is drawn: the layer must be
// visible in the view and at least one segment must pass the label filter.
func ShouldShow(layer models.LayerConfig, renderable int) bool {
	return layer.Visible && renderable > 0
}

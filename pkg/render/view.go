package render

import "segvolrender/pkg/reactive"

// View is the context a representation renders into
type View struct {
	// ID identifies the view in the per-view configuration stores
	ID string

	// Renderer owns the lights used by cinematic lighting
	Renderer *Renderer

	// Animating is true while the camera is being animated
	Animating *reactive.Value[bool]

	// OnRender, when set, is called for every render request
	OnRender func()

	requests int
}

// NewView creates a view with a default renderer
func NewView(id string) *View {
	return &View{
		ID:        id,
		Renderer:  NewRenderer(),
		Animating: reactive.NewValue(false),
	}
}

// RequestRender asks the external scheduler for a new frame
func (v *View) RequestRender() {
	v.requests++
	if v.OnRender != nil {
		v.OnRender()
	}
}

// RenderRequests returns the number of render requests issued so far
func (v *View) RenderRequests() int { return v.requests }

package cinematic

import "segvolrender/internal/models"

// Coordinator runs every effect on each recompute. Effects are never skipped
// so one whose sub-gate turned false gets the chance to switch itself off.
type Coordinator struct {
	effects []Effect
}

// NewCoordinator creates a coordinator over effects, or DefaultEffects when none are given
func NewCoordinator(effects ...Effect) *Coordinator {
	if len(effects) == 0 {
		effects = DefaultEffects()
	}
	return &Coordinator{effects: effects}
}

// Effects returns the names of the effects in application order
func (c *Coordinator) Effects() []string {
	names := make([]string, len(c.effects))
	for i, e := range c.effects {
		names[i] = e.Name
	}
	return names
}

// Apply runs every effect against t and then calls requestRender once
func (c *Coordinator) Apply(t Target, p models.CinematicParams, s State, requestRender func()) {
	for _, e := range c.effects {
		e.Apply(t, e.Gate(s, p), p, s)
	}
	if requestRender != nil {
		requestRender()
	}
}

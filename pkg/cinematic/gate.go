// Package cinematic decides when cinematic volume rendering is active and
// applies its lighting, shading, scattering, sampling and ambient occlusion
// settings to a representation.
package cinematic

import "segvolrender/internal/models"

// DefaultStreamingSampleFactor multiplies the sample distance while the
// parent image is still streaming in
const DefaultStreamingSampleFactor = 15.0

// State is the effective cinematic state for one recompute
type State struct {
	// Enabled is true when cinematic effects should be applied
	Enabled bool

	// Streaming is true while the parent image is loading
	Streaming bool

	// SampleDistanceFactor scales the sample distance chosen by the sampling effect
	SampleDistanceFactor float64
}

// Gate returns the effective state using DefaultStreamingSampleFactor.
// Cinematic rendering is suppressed while the view animates or the parent
// image streams, and restored once both settle.
func Gate(p models.CinematicParams, animating, streaming bool) State {
	return GateWithFactor(p, animating, streaming, DefaultStreamingSampleFactor)
}

// GateWithFactor is Gate with an explicit streaming sample distance factor.
// A factor <= 0 falls back to DefaultStreamingSampleFactor.
func GateWithFactor(p models.CinematicParams, animating, streaming bool, factor float64) State {
	if factor <= 0 {
		factor = DefaultStreamingSampleFactor
	}
	s := State{
		Enabled:              p.Enabled && !animating && !streaming,
		Streaming:            streaming,
		SampleDistanceFactor: 1,
	}
	if streaming {
		s.SampleDistanceFactor = factor
	}
	return s
}

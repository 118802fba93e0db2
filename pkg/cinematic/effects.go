package cinematic

import (
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"segvolrender/internal/models"
	"segvolrender/pkg/render"
)

// Target is what the cinematic effects mutate for one view and layer
type Target struct {
	Renderer *render.Renderer
	Property *render.VolumeProperty
	Mapper   *render.VolumeMapper

	// Center is the world-space center of the parent image
	Center r3.Vec

	// Spacing is the voxel spacing of the parent image
	Spacing []float64
}

// Effect pairs a sub-gate with the function applying one cinematic effect.
// Apply receives the sub-gate result and must undo the effect when it is false.
type Effect struct {
	Name  string
	Gate  func(s State, p models.CinematicParams) bool
	Apply func(t Target, on bool, p models.CinematicParams, s State)
}

func whenEnabled(s State, _ models.CinematicParams) bool { return s.Enabled }

// DefaultEffects returns the five standard cinematic effects
func DefaultEffects() []Effect {
	return []Effect{
		{Name: "lighting", Gate: whenEnabled, Apply: applyLighting},
		{Name: "shading", Gate: whenEnabled, Apply: applyShading},
		{
			Name: "scattering",
			Gate: func(s State, p models.CinematicParams) bool {
				return s.Enabled && p.UseVolumetricScatteringBlending
			},
			Apply: applyScattering,
		},
		{Name: "sampling", Gate: whenEnabled, Apply: applySampling},
		{
			Name: "ambient-occlusion",
			Gate: func(s State, p models.CinematicParams) bool {
				return s.Enabled && p.UseLocalAmbientOcclusion
			},
			Apply: applyLocalAmbientOcclusion,
		},
	}
}

func applyLighting(t Target, on bool, p models.CinematicParams, _ State) {
	if t.Renderer == nil || len(t.Renderer.Lights) == 0 {
		return
	}
	light := t.Renderer.Lights[0]
	want := *light
	twoSided := true
	if on {
		want.Positional = true
		want.FocalPoint = t.Center
		want.ConeAngle = 90
		want.Intensity = 1
		want.Type = render.SceneLight
		if p.LightFollowsCamera {
			want.Type = render.HeadLight
		}
		twoSided = false
	} else {
		want.Positional = false
		want.Type = render.HeadLight
	}
	if want == *light && twoSided == t.Renderer.TwoSidedLighting {
		return
	}
	*light = want
	t.Renderer.TwoSidedLighting = twoSided
	t.Renderer.Modified()
}

func applyShading(t Target, on bool, p models.CinematicParams, _ State) {
	s := t.Property.Shading(0)
	if on {
		s.Shade = true
		s.UseGradientOpacity = false
		s.Ambient = p.Ambient
		s.Diffuse = p.Diffuse
		s.Specular = p.Specular
	} else {
		s.Shade = false
	}
	t.Property.SetShading(0, s)
}

func applyScattering(t Target, on bool, p models.CinematicParams, _ State) {
	blending := 0.0
	if on {
		blending = p.VolumetricScatteringBlending
	}
	t.Mapper.SetVolumetricScatteringBlending(blending)
}

// applySampling always runs so the streaming factor is applied even when
// cinematic rendering is off. The distance is recomputed from the spacing
// every time, never from the mapper's current value.
func applySampling(t Target, on bool, p models.CinematicParams, s State) {
	d := BaseSampleDistance(t.Spacing)
	if on && p.VolumeQuality > 0 {
		d /= p.VolumeQuality
	}
	if s.SampleDistanceFactor > 0 {
		d *= s.SampleDistanceFactor
	}
	t.Mapper.SetSampleDistance(d)
}

func applyLocalAmbientOcclusion(t Target, on bool, p models.CinematicParams, _ State) {
	_, radius, size := t.Mapper.LocalAmbientOcclusion()
	if on {
		radius, size = p.LAOKernelRadius, p.LAOKernelSize
	}
	t.Mapper.SetLocalAmbientOcclusion(on, radius, size)
}

// BaseSampleDistance is the sample distance at default quality: the mean
// voxel spacing, or 1 without spacing information.
func BaseSampleDistance(spacing []float64) float64 {
	if len(spacing) == 0 {
		return 1
	}
	d := stat.Mean(spacing, nil)
	if d <= 0 {
		return 1
	}
	return d
}

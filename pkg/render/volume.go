package render

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"segvolrender/internal/models"
)

// Interpolation selects how the mapper samples voxels between centers
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationNearest
)

// ComponentShading holds the shading coefficients of one scalar component
type ComponentShading struct {
	Shade              bool
	UseGradientOpacity bool
	Ambient            float64
	Diffuse            float64
	Specular           float64
}

// VolumeProperty holds the per-component transfer functions and shading state
type VolumeProperty struct {
	color         []*ColorTransferFunction
	opacity       []*PiecewiseFunction
	shading       []ComponentShading
	opacityScale  float64
	interpolation Interpolation
	mtime         uint64
}

// NewVolumeProperty creates a property with the given number of scalar components
func NewVolumeProperty(components int) *VolumeProperty {
	if components < 1 {
		components = 1
	}
	p := &VolumeProperty{
		color:        make([]*ColorTransferFunction, components),
		opacity:      make([]*PiecewiseFunction, components),
		shading:      make([]ComponentShading, components),
		opacityScale: 1,
	}
	for i := 0; i < components; i++ {
		p.color[i] = NewColorTransferFunction()
		p.opacity[i] = NewPiecewiseFunction()
	}
	return p
}

// RGBTransferFunction returns the color function of a component
func (p *VolumeProperty) RGBTransferFunction(component int) *ColorTransferFunction {
	return p.color[component]
}

// ScalarOpacity returns the opacity function of a component
func (p *VolumeProperty) ScalarOpacity(component int) *PiecewiseFunction {
	return p.opacity[component]
}

// Shading returns the shading state of a component
func (p *VolumeProperty) Shading(component int) ComponentShading {
	return p.shading[component]
}

// SetShading replaces the shading state of a component.
// It reports whether anything changed.
func (p *VolumeProperty) SetShading(component int, s ComponentShading) bool {
	if p.shading[component] == s {
		return false
	}
	p.shading[component] = s
	p.mtime++
	return true
}

// OpacityScale returns the layer opacity multiplier
func (p *VolumeProperty) OpacityScale() float64 { return p.opacityScale }

// SetOpacityScale sets the layer opacity multiplier
func (p *VolumeProperty) SetOpacityScale(scale float64) bool {
	if p.opacityScale == scale {
		return false
	}
	p.opacityScale = scale
	p.mtime++
	return true
}

// Interpolation returns the sampling interpolation mode
func (p *VolumeProperty) Interpolation() Interpolation { return p.interpolation }

// SetInterpolation sets the sampling interpolation mode
func (p *VolumeProperty) SetInterpolation(mode Interpolation) bool {
	if p.interpolation == mode {
		return false
	}
	p.interpolation = mode
	p.mtime++
	return true
}

// Modified marks the property changed after its functions were rebuilt
func (p *VolumeProperty) Modified() { p.mtime++ }

// MTime returns the number of modifications
func (p *VolumeProperty) MTime() uint64 { return p.mtime }

// VolumeMapper holds sampling, cinematic and upload state of the volume
type VolumeMapper struct {
	sampleDistance     float64
	scatteringBlending float64
	localAO            bool
	laoKernelRadius    float64
	laoKernelSize      float64
	clippingPlanes     []models.ClipPlane
	updatedExtents     []models.Extent
	inputModified      uint64
	mtime              uint64
}

// NewVolumeMapper creates a mapper with a unit sample distance
func NewVolumeMapper() *VolumeMapper {
	return &VolumeMapper{sampleDistance: 1}
}

// SampleDistance returns the ray sample distance in world units
func (m *VolumeMapper) SampleDistance() float64 { return m.sampleDistance }

// SetSampleDistance sets the ray sample distance
func (m *VolumeMapper) SetSampleDistance(d float64) bool {
	if m.sampleDistance == d {
		return false
	}
	m.sampleDistance = d
	m.mtime++
	return true
}

// VolumetricScatteringBlending returns the scatter blending coefficient
func (m *VolumeMapper) VolumetricScatteringBlending() float64 { return m.scatteringBlending }

// SetVolumetricScatteringBlending sets the scatter blending coefficient
func (m *VolumeMapper) SetVolumetricScatteringBlending(v float64) bool {
	if m.scatteringBlending == v {
		return false
	}
	m.scatteringBlending = v
	m.mtime++
	return true
}

// LocalAmbientOcclusion returns whether LAO is on and its kernel
func (m *VolumeMapper) LocalAmbientOcclusion() (on bool, radius, size float64) {
	return m.localAO, m.laoKernelRadius, m.laoKernelSize
}

// SetLocalAmbientOcclusion toggles LAO and sets its kernel
func (m *VolumeMapper) SetLocalAmbientOcclusion(on bool, radius, size float64) bool {
	if m.localAO == on && m.laoKernelRadius == radius && m.laoKernelSize == size {
		return false
	}
	m.localAO, m.laoKernelRadius, m.laoKernelSize = on, radius, size
	m.mtime++
	return true
}

// ClippingPlanes returns a copy of the active clip planes
func (m *VolumeMapper) ClippingPlanes() []models.ClipPlane {
	return slices.Clone(m.clippingPlanes)
}

// SetClippingPlanes replaces the clip planes
func (m *VolumeMapper) SetClippingPlanes(planes []models.ClipPlane) bool {
	if slices.Equal(m.clippingPlanes, planes) {
		return false
	}
	m.clippingPlanes = slices.Clone(planes)
	m.mtime++
	return true
}

// AppendUpdatedExtents queues regions for re-upload on the next render
func (m *VolumeMapper) AppendUpdatedExtents(extents ...models.Extent) {
	if len(extents) == 0 {
		return
	}
	m.updatedExtents = append(m.updatedExtents, extents...)
	m.mtime++
}

// UpdatedExtents returns a copy of the queued re-upload regions
func (m *VolumeMapper) UpdatedExtents() []models.Extent {
	return slices.Clone(m.updatedExtents)
}

// TakeUpdatedExtents hands the queued regions to the renderer and clears the queue
func (m *VolumeMapper) TakeUpdatedExtents() []models.Extent {
	out := m.updatedExtents
	m.updatedExtents = nil
	return out
}

// InputModified marks the whole input volume for re-upload
func (m *VolumeMapper) InputModified() {
	m.inputModified++
	m.mtime++
}

// InputMTime returns the number of full input invalidations
func (m *VolumeMapper) InputMTime() uint64 { return m.inputModified }

// MTime returns the number of modifications
func (m *VolumeMapper) MTime() uint64 { return m.mtime }

// Actor places a mapped volume in the scene
type Actor struct {
	Property *VolumeProperty
	Mapper   *VolumeMapper
	visible  bool
	mtime    uint64
}

// Visible reports whether the actor is drawn
func (a *Actor) Visible() bool { return a.visible }

// SetVisibility shows or hides the actor
func (a *Actor) SetVisibility(v bool) bool {
	if a.visible == v {
		return false
	}
	a.visible = v
	a.mtime++
	return true
}

// MTime returns the number of modifications
func (a *Actor) MTime() uint64 { return a.mtime }

// Representation is the property, mapper and actor triple of one layer in one view
type Representation struct {
	Property *VolumeProperty
	Mapper   *VolumeMapper
	Actor    *Actor
}

// NewLabelmapRepresentation assembles a single component representation
// with nearest-neighbour sampling, as label values must never be blended.
func NewLabelmapRepresentation() *Representation {
	prop := NewVolumeProperty(1)
	prop.SetInterpolation(InterpolationNearest)
	mapper := NewVolumeMapper()
	return &Representation{
		Property: prop,
		Mapper:   mapper,
		Actor:    &Actor{Property: prop, Mapper: mapper, visible: true},
	}
}

// LightType selects whether a light moves with the camera
type LightType int

const (
	HeadLight LightType = iota
	SceneLight
)

// Light is a renderer light
type Light struct {
	Type       LightType
	Positional bool
	FocalPoint r3.Vec
	ConeAngle  float64
	Intensity  float64
}

// Renderer owns the lights of a view
type Renderer struct {
	Lights           []*Light
	TwoSidedLighting bool
	mtime            uint64
}

// NewRenderer creates a renderer with a single default head light
func NewRenderer() *Renderer {
	return &Renderer{
		Lights:           []*Light{{Type: HeadLight, Intensity: 1, ConeAngle: 30}},
		TwoSidedLighting: true,
	}
}

// Modified marks the renderer's light setup changed
func (r *Renderer) Modified() { r.mtime++ }

// MTime returns the number of modifications
func (r *Renderer) MTime() uint64 { return r.mtime }

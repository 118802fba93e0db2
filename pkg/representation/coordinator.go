// Package representation keeps the volume representation of one
// segmentation layer in one view consistent with its inputs.
//
// The Coordinator owns no render state. It subscribes to the stores, runs
// the transfer function builder, the extent tracker, the cinematic gate and
// the visibility gate when something they read changes, and issues a single
// render request once every mutation of a change has been applied.
package representation

import (
	"errors"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"segvolrender/internal/models"
	"segvolrender/pkg/cinematic"
	"segvolrender/pkg/reactive"
	"segvolrender/pkg/render"
	"segvolrender/pkg/store"
	"segvolrender/pkg/streaming"
	"segvolrender/pkg/transfer"
)

// recompute keys
const (
	keyVisibility = "visibility"
	keyTransfer   = "transfer"
	keyCinematic  = "cinematic"
	keyExtents    = "extents"
	keyCrop       = "crop"
	keyData       = "data"
	keyParent     = "parent"
)

// Stores bundles the collaborators a Coordinator reads from
type Stores struct {
	Segmentations *store.SegmentationStore
	Images        *store.ImageStore
	Coloring      *store.ColoringConfigStore
	Crop          *store.CropStore
}

// Options configures a Coordinator
type Options struct {
	// LabelFilter restricts rendering to one segment value; <= 0 renders all
	LabelFilter int

	// StreamingSampleFactor overrides cinematic.DefaultStreamingSampleFactor
	StreamingSampleFactor float64

	// Effects overrides cinematic.DefaultEffects
	Effects []cinematic.Effect

	Logger *log.Logger
}

// Coordinator drives the representation of one segmentation in one view
type Coordinator struct {
	view           *render.View
	stores         Stores
	segmentationID string
	rep            *render.Representation

	labelFilter *reactive.Value[int]
	tracker     *streaming.ExtentTracker
	cinematic   *cinematic.Coordinator
	factor      float64
	logger      *log.Logger

	sched       reactive.Scheduler
	subs        reactive.Group
	parentSubs  reactive.Group
	parentID    string
	needsRender bool
	closed      bool

	// chunk subscription of the parent image's current volume
	chunkVolume *store.Volume
	chunkUnsub  func()
}

// New binds a labelmap representation for segmentationID into view and
// computes its initial state. It never fails: inputs that are not loaded
// yet are picked up when their stores notify.
func New(view *render.View, stores Stores, segmentationID string, opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := &Coordinator{
		view:           view,
		stores:         stores,
		segmentationID: segmentationID,
		rep:            render.NewLabelmapRepresentation(),
		labelFilter:    reactive.NewValue(opts.LabelFilter),
		tracker:        streaming.NewExtentTracker(),
		cinematic:      cinematic.NewCoordinator(opts.Effects...),
		factor:         opts.StreamingSampleFactor,
		logger:         logger.With("view", view.ID, "segmentation", segmentationID),
	}
	c.sched.Settled = c.settle

	c.subs.Add(stores.Segmentations.SubscribeMetadata(segmentationID, func(*models.SegmentationMetadata) {
		c.Batch(func() {
			c.schedule(keyParent, c.rebindParent)
			c.schedule(keyVisibility, c.updateVisibility)
		})
	}))
	c.subs.Add(stores.Segmentations.SubscribeDataModified(segmentationID, func() {
		c.schedule(keyData, c.invalidateData)
	}))
	c.subs.Add(stores.Coloring.SubscribeLayer(view.ID, segmentationID, func(models.LayerConfig) {
		c.schedule(keyVisibility, c.updateVisibility)
	}))
	c.subs.Add(c.labelFilter.Subscribe(func(int) {
		c.schedule(keyVisibility, c.updateVisibility)
	}))
	c.subs.Add(view.Animating.Subscribe(func(bool) {
		c.schedule(keyCinematic, c.updateCinematic)
	}))

	c.Batch(func() {
		c.schedule(keyParent, c.rebindParent)
		c.schedule(keyVisibility, c.updateVisibility)
	})
	return c
}

// Representation returns the property, mapper and actor for composition into a scene
func (c *Coordinator) Representation() *render.Representation { return c.rep }

// LabelFilter returns the current single label filter
func (c *Coordinator) LabelFilter() int { return c.labelFilter.Get() }

// SetLabelFilter restricts rendering to one segment value; <= 0 clears the filter
func (c *Coordinator) SetLabelFilter(value int) {
	if value < 0 {
		value = 0
	}
	c.labelFilter.Set(value)
}

// Batch applies fn and coalesces every recompute it triggers, so a burst of
// store updates costs one recompute of each kind and one render request.
func (c *Coordinator) Batch(fn func()) {
	c.sched.Batch(fn)
}

// Tick delivers every extent streamed since the previous tick to the mapper
// in one pass and requests at most one render for them. It must run on the
// render loop; chunk events only queue extents.
func (c *Coordinator) Tick() {
	c.schedule(keyExtents, c.flushExtents)
}

// PendingExtents returns how many streamed extents wait for the next Tick.
// It is safe to call from any goroutine.
func (c *Coordinator) PendingExtents() int {
	return c.tracker.Pending()
}

// RebuildTransferFunction rebuilds the transfer function from the current metadata
func (c *Coordinator) RebuildTransferFunction() {
	c.schedule(keyTransfer, c.rebuildTransfer)
}

// ExtentCursor returns how many streamed extents were received and delivered
func (c *Coordinator) ExtentCursor() (received, delivered int) {
	return c.tracker.Cursor()
}

// Close releases every subscription. The representation is not mutated afterwards.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.releaseChunks()
	c.parentSubs.Close()
	c.subs.Close()
	c.logger.Debug("representation released")
}

func (c *Coordinator) schedule(key string, fn func()) {
	if c.closed {
		return
	}
	c.sched.Schedule(key, func() {
		if !c.closed {
			fn()
		}
	})
}

func (c *Coordinator) settle() {
	if c.needsRender && !c.closed {
		c.needsRender = false
		c.view.RequestRender()
	}
}

func (c *Coordinator) markDirty() { c.needsRender = true }

// rebindParent moves the image-derived subscriptions to the current parent image
func (c *Coordinator) rebindParent() {
	parentID := ""
	if md := c.stores.Segmentations.Metadata(c.segmentationID); md != nil {
		parentID = md.ParentImageID
	}
	if parentID == c.parentID {
		return
	}
	c.parentSubs.Reset()
	c.releaseChunks()
	c.parentID = parentID
	if parentID == "" {
		return
	}

	images := c.stores.Images
	c.parentSubs.Add(images.SubscribeMetadata(parentID, func(*store.ImageMetadata) {
		c.schedule(keyCinematic, c.updateCinematic)
	}))
	c.parentSubs.Add(images.SubscribeStreaming(parentID, func(bool) {
		c.schedule(keyCinematic, c.updateCinematic)
	}))
	c.parentSubs.Add(images.SubscribeData(parentID, func(*store.Volume) {
		c.bindChunks()
		c.schedule(keyCinematic, c.updateCinematic)
	}))
	c.parentSubs.Add(c.stores.Coloring.SubscribeCinematic(c.view.ID, parentID, func(*models.CinematicParams) {
		c.schedule(keyCinematic, c.updateCinematic)
	}))
	if c.stores.Crop != nil {
		c.parentSubs.Add(c.stores.Crop.SubscribePlanes(parentID, func([]models.ClipPlane) {
			c.schedule(keyCrop, c.updateCrop)
		}))
	}
	c.bindChunks()
	c.schedule(keyCinematic, c.updateCinematic)
	c.schedule(keyCrop, c.updateCrop)
}

// bindChunks subscribes to chunk loads of the parent image's current volume
// and drops the subscription of the volume it replaces. Chunk events may
// arrive on a loader goroutine, so the handler only queues the extent.
func (c *Coordinator) bindChunks() {
	vol := c.stores.Images.Data(c.parentID)
	if vol == c.chunkVolume {
		return
	}
	c.releaseChunks()
	if vol == nil {
		return
	}
	c.chunkVolume = vol
	c.chunkUnsub = vol.OnChunkLoaded(c.tracker.Push)
}

func (c *Coordinator) releaseChunks() {
	if c.chunkUnsub != nil {
		c.chunkUnsub()
	}
	c.chunkVolume = nil
	c.chunkUnsub = nil
}

func (c *Coordinator) updateVisibility() {
	md := c.stores.Segmentations.Metadata(c.segmentationID)
	layer := c.stores.Coloring.Layer(c.view.ID, c.segmentationID)
	filter := c.labelFilter.Get()

	show := ShouldShow(layer, transfer.Count(md, filter))
	changed := c.rep.Actor.SetVisibility(show)
	if c.rep.Property.SetOpacityScale(layer.Opacity) {
		changed = true
	}
	if changed {
		c.markDirty()
	}
	if show {
		c.schedule(keyTransfer, c.rebuildTransfer)
	}
}

func (c *Coordinator) rebuildTransfer() {
	md := c.stores.Segmentations.Metadata(c.segmentationID)
	err := transfer.Apply(c.rep.Property, md, c.labelFilter.Get())
	if errors.Is(err, transfer.ErrNoMetadata) {
		c.logger.Warn("skipping transfer function rebuild", "err", err)
		return
	}
	c.markDirty()
}

func (c *Coordinator) flushExtents() {
	n := c.tracker.Flush(c.rep.Mapper)
	if n == 0 {
		return
	}
	c.logger.Debug("delivered streamed extents", "count", n)
	c.markDirty()
}

func (c *Coordinator) invalidateData() {
	c.rep.Mapper.InputModified()
	c.markDirty()
}

func (c *Coordinator) updateCrop() {
	if c.stores.Crop == nil || c.parentID == "" {
		return
	}
	if c.rep.Mapper.SetClippingPlanes(c.stores.Crop.Planes(c.parentID)) {
		c.markDirty()
	}
}

func (c *Coordinator) updateCinematic() {
	if c.parentID == "" {
		return
	}
	params := c.stores.Coloring.Cinematic(c.view.ID, c.parentID)
	data := c.stores.Images.Data(c.parentID)
	if params == nil || data == nil {
		c.logger.Debug("cinematic recompute not ready", "image", c.parentID,
			"config", params != nil, "data", data != nil)
		return
	}

	state := cinematic.GateWithFactor(*params,
		c.view.Animating.Get(), c.stores.Images.Streaming(c.parentID), c.factor)

	target := cinematic.Target{
		Renderer: c.view.Renderer,
		Property: c.rep.Property,
		Mapper:   c.rep.Mapper,
		Center:   r3.Vec{},
		Spacing:  data.Spacing,
	}
	if md := c.stores.Images.Metadata(c.parentID); md != nil {
		if md.WorldBounds != nil {
			target.Center = md.WorldBounds.Center()
		}
		if len(md.Spacing) > 0 {
			target.Spacing = md.Spacing
		}
	}
	c.cinematic.Apply(target, *params, state, c.markDirty)
}

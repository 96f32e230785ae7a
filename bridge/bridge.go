// Package bridge keeps one renderer in sync with the published parameter set.
package bridge

import (
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/richinsley/shadertuner/params"
	"github.com/richinsley/shadertuner/shader"
)

// Renderer is the contract of the external shader renderer bound to one surface.
type Renderer interface {
	// SetImage installs new image source. It must not reset elapsed time or
	// stop a running loop.
	SetImage(source string) error
	Play() error
	Pause()
	// Resize changes the backing surface to w x h pixels.
	Resize(w, h int)
	// Release frees the renderer; it is not used afterwards.
	Release()
}

// Factory creates a renderer bound to the surface with the given id.
type Factory func(surfaceID string) (Renderer, error)

// Viewport notifies size changes of the drawing area.
type Viewport interface {
	// OnResize calls fn with the new pixel size until cancel is called.
	OnResize(fn func(w, h int)) (cancel func())
	Size() (w, h int)
}

// Bridge owns a single renderer and pushes regenerated source to it.
// All methods run on the event loop.
type Bridge struct {
	factory  Factory
	viewport Viewport
	log      *slog.Logger

	surfaceID    string
	renderer     Renderer
	mounted      bool
	closed       bool
	source       string
	cancelResize func()
	playing      bool
	paused       bool
}

// New returns an unmounted bridge. A nil logger uses slog.Default().
func New(factory Factory, viewport Viewport, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		factory:  factory,
		viewport: viewport,
		log:      logger,
	}
}

// NewSurfaceID returns a fresh surface identifier.
func NewSurfaceID() string {
	return "shader-canvas-" + strconv.FormatUint(rand.Uint64(), 36)
}

// SurfaceID is the id the renderer was created for, empty before Mount.
func (b *Bridge) SurfaceID() string { return b.surfaceID }

// Healthy reports whether a renderer is attached.
func (b *Bridge) Healthy() bool { return b.renderer != nil }

// Mount creates the renderer, submits the source for s and starts playback.
// Only the first call has an effect. Failures are logged; the bridge then keeps
// accepting updates without a renderer.
func (b *Bridge) Mount(s params.Set) {
	if b.mounted || b.closed {
		return
	}
	b.mounted = true

	if b.viewport != nil {
		b.cancelResize = b.viewport.OnResize(b.Resize)
	}

	b.surfaceID = NewSurfaceID()
	r, err := b.factory(b.surfaceID)
	if err != nil {
		b.log.Error("failed to create shader renderer", "surface", b.surfaceID, "err", err)
		return
	}
	b.renderer = r
	if b.viewport != nil {
		r.Resize(b.viewport.Size())
	}

	b.submit(s)
	b.play()
	b.log.Info("shader renderer initialized", "surface", b.surfaceID)
}

func (b *Bridge) play() {
	if b.playing || b.paused || b.renderer == nil {
		return
	}
	if err := b.renderer.Play(); err != nil {
		b.log.Error("failed to start playback", "surface", b.surfaceID, "err", err)
		return
	}
	b.playing = true
}

// SetPaused pauses or resumes shader time. Updates never change it.
func (b *Bridge) SetPaused(paused bool) {
	if b.closed || paused == b.paused {
		return
	}
	b.paused = paused
	if !paused {
		b.play()
		return
	}
	if b.renderer != nil && b.playing {
		b.renderer.Pause()
		b.playing = false
	}
}

// Paused reports whether playback was paused with SetPaused.
func (b *Bridge) Paused() bool { return b.paused }

// Update regenerates the source for s and hands it to the existing renderer
// without pausing it. Unchanged source is not resubmitted.
func (b *Bridge) Update(s params.Set) {
	if !b.mounted || b.closed {
		return
	}
	if b.renderer == nil {
		b.log.Debug("no renderer, dropping shader update", "surface", b.surfaceID)
		return
	}
	b.submit(s)
}

func (b *Bridge) submit(s params.Set) {
	src := shader.Generate(s)
	if src == b.source {
		return
	}
	if err := b.renderer.SetImage(src); err != nil {
		b.log.Error("failed to update shader", "surface", b.surfaceID, "err", err)
		return
	}
	b.source = src
	b.log.Debug("shader updated", "surface", b.surfaceID, "bytes", len(src))
	// a renderer whose first source failed to compile starts here
	if b.mounted {
		b.play()
	}
}

// Resize resizes the backing surface. The renderer itself is kept.
func (b *Bridge) Resize(w, h int) {
	if b.renderer == nil || b.closed {
		return
	}
	b.renderer.Resize(w, h)
}

// Close stops playback, releases the renderer and the resize subscription.
func (b *Bridge) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.cancelResize != nil {
		b.cancelResize()
		b.cancelResize = nil
	}
	if b.renderer != nil {
		b.renderer.Pause()
		b.renderer.Release()
		b.renderer = nil
		b.playing = false
	}
}

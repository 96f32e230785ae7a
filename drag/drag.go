// Package drag turns horizontal pointer drags into clamped parameter edits.
//
// A Controller is Idle until a control is pressed. While Dragging it owns a
// global pointer capture, so moves and the release are seen even after the
// pointer leaves the control. The drag is relative: each move adds
// (dx / DragSpan) * (max - min) to the current value and clamps it, so a clamped
// drag resumes without snapping when the pointer turns around.
package drag

import (
	"github.com/richinsley/shadertuner/params"
)

// DragSpan is the horizontal distance in pixels that covers a control's full range.
const DragSpan = 200.0

// Surface delivers pointer events from the whole interaction surface.
type Surface interface {
	// Capture routes every pointer move and release to the given functions
	// until the returned cancel function is called.
	Capture(move func(x float64), release func()) (cancel func())
}

// Source returns the currently published parameter set.
type Source interface {
	Current() params.Set
}

// SourceFunc adapts a function to Source.
type SourceFunc func() params.Set

func (f SourceFunc) Current() params.Set { return f() }

// State is the interaction state of a Controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

type dragState struct {
	target   params.Target
	min, max float64
	lastX    float64
	cancel   func()
}

// Controller is the drag state machine. It is not safe for concurrent use; all
// methods are expected to run on the event loop.
type Controller struct {
	surface  Surface
	source   Source
	onChange func(params.Set)

	active *dragState
}

// New returns an idle Controller. onChange receives one new set per move.
func New(surface Surface, source Source, onChange func(params.Set)) *Controller {
	return &Controller{
		surface:  surface,
		source:   source,
		onChange: onChange,
	}
}

// State reports whether a drag is in progress.
func (c *Controller) State() State {
	if c.active != nil {
		return Dragging
	}
	return Idle
}

// Target returns the target being dragged.
func (c *Controller) Target() (params.Target, bool) {
	if c.active == nil {
		return params.Target{}, false
	}
	return c.active.target, true
}

// Press starts dragging t from pointer position x. Invalid targets are ignored.
// Pressing while already dragging ends the previous drag first.
func (c *Controller) Press(t params.Target, x float64) {
	if !t.Valid() {
		return
	}
	c.Release()
	lo, hi := t.Range()
	d := &dragState{target: t, min: lo, max: hi, lastX: x}
	c.active = d
	d.cancel = c.surface.Capture(c.Move, c.Release)
}

// Move applies a pointer move to x. It is a no-op while idle.
func (c *Controller) Move(x float64) {
	d := c.active
	if d == nil {
		return
	}
	current := c.source.Current()
	next := Step(current.Value(d.target), x-d.lastX, d.min, d.max)
	d.lastX = x
	if c.onChange != nil {
		c.onChange(current.With(d.target, next))
	}
}

// Release ends the drag and gives the pointer capture back. It is a no-op while
// idle.
func (c *Controller) Release() {
	d := c.active
	if d == nil {
		return
	}
	c.active = nil
	if d.cancel != nil {
		d.cancel()
	}
}

// Close ends any drag in progress. Call it when the owner is torn down.
func (c *Controller) Close() {
	c.Release()
}

// Step returns value moved by dx pixels over a [lo, hi] control, clamped.
// An empty range contributes no movement.
func Step(value, dx, lo, hi float64) float64 {
	var delta float64
	if span := hi - lo; span > 0 {
		delta = dx / DragSpan * span
	}
	return clamp(value+delta, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

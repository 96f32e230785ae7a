// Package panel lays out the parameter controls, routes presses to the drag
// controller and turns direct numeric entry into parameter edits.
//
// The panel never stores parameter values. It reads the current set from its
// source and forwards every accepted change to its owner.
package panel

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/richinsley/shadertuner/drag"
	"github.com/richinsley/shadertuner/graphics"
	"github.com/richinsley/shadertuner/params"
)

var (
	backgroundColor = [4]float32{0, 0, 0, 0.8}
	trackColor      = [4]float32{0x4b / 255.0, 0x55 / 255.0, 0x63 / 255.0, 1}
	thumbColor      = [4]float32{1, 1, 1, 1}
	toggleColor     = [4]float32{1, 1, 1, 1}
	channelColors   = map[params.Channel][4]float32{
		params.Red:   {0xdc / 255.0, 0x26 / 255.0, 0x26 / 255.0, 1},
		params.Green: {0x16 / 255.0, 0xa3 / 255.0, 0x4a / 255.0, 1},
		params.Blue:  {0x25 / 255.0, 0x63 / 255.0, 0xeb / 255.0, 1},
	}
)

// Panel is the parameter editor UI model.
type Panel struct {
	source   drag.Source
	onChange func(params.Set)
	drag     *drag.Controller

	expanded      bool
	viewportWidth float32
	layout        layout
}

// New returns an expanded panel. Drags capture the pointer through surface;
// every accepted edit is passed to onChange.
func New(surface drag.Surface, source drag.Source, onChange func(params.Set)) *Panel {
	p := &Panel{
		source:   source,
		onChange: onChange,
		expanded: true,
	}
	p.drag = drag.New(surface, source, p.forward)
	p.relayout()
	return p
}

func (p *Panel) forward(s params.Set) {
	if p.onChange != nil {
		p.onChange(s)
	}
}

// Resize lays the panel out for a viewport of the given width.
func (p *Panel) Resize(viewportWidth float32) {
	p.viewportWidth = viewportWidth
	p.relayout()
}

func (p *Panel) relayout() {
	p.layout = computeLayout(p.viewportWidth, p.expanded)
}

// Expanded reports whether the controls are shown.
func (p *Panel) Expanded() bool { return p.expanded }

// Toggle flips between the expanded and collapsed display.
func (p *Panel) Toggle() {
	p.expanded = !p.expanded
	p.relayout()
}

// Controls returns the visible controls.
func (p *Panel) Controls() []Control { return p.layout.controls }

// ControlAt returns the control under (x, y).
func (p *Panel) ControlAt(x, y float64) (Control, bool) {
	fx, fy := float32(x), float32(y)
	for _, c := range p.layout.controls {
		if c.hit(fx, fy) {
			return c, true
		}
	}
	return Control{}, false
}

// Contains reports whether (x, y) is over the panel.
func (p *Panel) Contains(x, y float64) bool {
	return p.layout.frame.Contains(float32(x), float32(y))
}

// Press handles a primary button press. It returns true when the panel
// consumed it: a toggle, the start of a drag, or a press on the panel body.
func (p *Panel) Press(x, y float64) bool {
	if p.layout.toggle.Contains(float32(x), float32(y)) {
		p.Toggle()
		return true
	}
	if c, ok := p.ControlAt(x, y); ok {
		p.drag.Press(c.Target, x)
		return true
	}
	return p.Contains(x, y)
}

// Dragging returns the target of the drag in progress.
func (p *Panel) Dragging() (params.Target, bool) {
	return p.drag.Target()
}

// Enter applies free-form text typed for t. Text that does not start with a
// number sets the value to 0.
func (p *Panel) Enter(t params.Target, text string) {
	if !t.Valid() {
		return
	}
	p.forward(p.source.Current().With(t, ParseNumber(text)))
}

// Close ends any drag in progress.
func (p *Panel) Close() {
	p.drag.Close()
}

var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumber reads the longest leading decimal number of text, ignoring
// surrounding space. Empty, non-numeric, overflowing or non-finite input
// yields 0.
func ParseNumber(text string) float64 {
	m := numericPrefix.FindString(strings.TrimSpace(text))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatValue renders v the way the panel displays it.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Describe returns a one-line description of t's value in s.
func Describe(s params.Set, t params.Target) string {
	if !t.Valid() {
		return ""
	}
	if c, _, ok := t.Channel(); ok {
		col := colorOf(s, c)
		return fmt.Sprintf("%s: %s (%s %s %s %s)", t.Label(), FormatValue(s.Value(t)),
			FormatValue(col.R), FormatValue(col.G), FormatValue(col.B), col.Clamped().Hex())
	}
	return fmt.Sprintf("%s: %s", t.Label(), FormatValue(s.Value(t)))
}

func colorOf(s params.Set, c params.ColorID) colorful.Color {
	var col params.Color
	switch c {
	case params.BaseColor:
		col = s.BaseColor
	case params.AccentColor:
		col = s.AccentColor
	}
	return colorful.Color{R: col.R, G: col.G, B: col.B}
}

// Overlay returns the quads that draw the panel for s, back to front.
func (p *Panel) Overlay(s params.Set) []graphics.Quad {
	l := p.layout
	quads := []graphics.Quad{quad(l.frame, backgroundColor)}

	// burger / close icon: two bars
	tg := l.toggle
	quads = append(quads,
		quad(Rect{X: tg.X + 2, Y: tg.Y + 5, W: tg.W - 4, H: 2}, toggleColor),
		quad(Rect{X: tg.X + 2, Y: tg.Y + tg.H - 7, W: tg.W - 4, H: 2}, toggleColor),
	)
	if !p.expanded {
		return quads
	}

	for _, sw := range l.swatches {
		c := colorOf(s, sw.color).Clamped()
		quads = append(quads, quad(sw.rect, [4]float32{float32(c.R), float32(c.G), float32(c.B), 1}))
	}
	for _, c := range l.controls {
		col := trackColor
		if _, ch, ok := c.Target.Channel(); ok {
			col = channelColors[ch]
		}
		quads = append(quads, quad(c.Track, col))
		tx := c.thumbX(s.Value(c.Target))
		thumb := Rect{
			X: tx - thumbSize/2,
			Y: c.Track.Y + c.Track.H/2 - thumbSize/2,
			W: thumbSize,
			H: thumbSize,
		}
		quads = append(quads, quad(thumb, thumbColor))
	}
	return quads
}

func quad(r Rect, color [4]float32) graphics.Quad {
	return graphics.Quad{X: r.X, Y: r.Y, W: r.W, H: r.H, Color: color}
}

package panel

import (
	"github.com/chewxy/math32"

	"github.com/richinsley/shadertuner/params"
)

// Layout metrics in window coordinates.
const (
	margin         = 16
	padding        = 16
	expandedWidth  = 320
	collapsedWidth = 48
	toggleWidth    = 24
	toggleHeight   = 20
	headerHeight   = 28
	groupHeight    = 20
	rowHeight      = 28
	labelHeight    = 16
	trackHeight    = 4
	trackHitSlop   = 6
	thumbSize      = 8
	channelGap     = 4
	swatchSize     = 12
	groupSpacing   = 12
)

// Rect is an axis aligned rectangle, top-left origin.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Control is one slider of the panel.
type Control struct {
	Target params.Target
	Label  string
	// Track is the visible bar; presses are accepted a little above and below it.
	Track Rect
}

func (c Control) hit(x, y float32) bool {
	r := c.Track
	r.Y -= trackHitSlop
	r.H += 2 * trackHitSlop
	return r.Contains(x, y)
}

// thumbX places the thumb center for value v.
func (c Control) thumbX(v float64) float32 {
	lo, hi := c.Target.Range()
	frac := float32(0)
	if hi > lo {
		frac = float32((v - lo) / (hi - lo))
	}
	frac = math32.Max(0, math32.Min(1, frac))
	return c.Track.X + frac*c.Track.W
}

// Group is a titled list of rows. A row holds one scalar control or the three
// channels of a color.
type Group struct {
	Title string
	Rows  [][]params.Target
}

// Groups lists the panel contents in display order.
func Groups() []Group {
	scalars := func(fs ...params.Field) [][]params.Target {
		rows := make([][]params.Target, len(fs))
		for i, f := range fs {
			rows[i] = []params.Target{params.Scalar(f)}
		}
		return rows
	}
	var colors [][]params.Target
	for _, c := range params.Colors() {
		row := make([]params.Target, 0, 3)
		for _, ch := range params.Channels() {
			row = append(row, params.ColorChannel(c, ch))
		}
		colors = append(colors, row)
	}
	return []Group{
		{Title: "Animation", Rows: scalars(params.TimeSpeed, params.RotationSpeed1, params.RotationSpeed2, params.WaveSpeed)},
		{Title: "Colors", Rows: colors},
		{Title: "Effects", Rows: scalars(
			params.WaveAmplitude, params.ColorIntensity, params.RayStepSize, params.MaxDistance,
			params.Complexity, params.DistanceOffset, params.RayOriginDistance, params.Iterations,
		)},
	}
}

// layout is the computed geometry for one viewport width.
type layout struct {
	frame    Rect
	toggle   Rect
	controls []Control
	swatches []swatch
}

type swatch struct {
	color params.ColorID
	rect  Rect
}

func computeLayout(viewportWidth float32, expanded bool) layout {
	width := float32(collapsedWidth)
	if expanded {
		width = expandedWidth
	}
	x0 := math32.Max(0, viewportWidth-margin-width)
	l := layout{}
	l.toggle = Rect{X: x0 + width - padding - toggleWidth, Y: margin + padding, W: toggleWidth, H: toggleHeight}
	if !expanded {
		l.frame = Rect{X: x0, Y: margin, W: width, H: 2*padding + toggleHeight}
		return l
	}

	inner := Rect{X: x0 + padding, W: width - 2*padding}
	y := float32(margin + padding + headerHeight)
	for _, g := range Groups() {
		y += groupHeight
		for _, row := range g.Rows {
			trackY := y + labelHeight
			if len(row) == 1 {
				t := row[0]
				l.controls = append(l.controls, Control{
					Target: t,
					Label:  t.Label(),
					Track:  Rect{X: inner.X, Y: trackY, W: inner.W, H: trackHeight},
				})
			} else {
				c, _, _ := row[0].Channel()
				l.swatches = append(l.swatches, swatch{color: c, rect: Rect{
					X: inner.X + inner.W - swatchSize, Y: y, W: swatchSize, H: swatchSize,
				}})
				n := float32(len(row))
				w := (inner.W - channelGap*(n-1)) / n
				for i, t := range row {
					l.controls = append(l.controls, Control{
						Target: t,
						Label:  t.Label(),
						Track:  Rect{X: inner.X + float32(i)*(w+channelGap), Y: trackY, W: w, H: trackHeight},
					})
				}
			}
			y += rowHeight
		}
		y += groupSpacing
	}
	l.frame = Rect{X: x0, Y: margin, W: width, H: y - margin - groupSpacing + padding}
	return l
}

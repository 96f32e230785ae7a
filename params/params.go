package params

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite is returned by Validate when a field is NaN or infinite.
var ErrNonFinite = errors.New("non-finite parameter")

// Color is a color triple. Channels are independent and unbounded; editor ranges
// are defined per color by ColorID.Range.
type Color struct {
	R float64
	G float64
	B float64
}

// Set holds every tunable value of the generated shader.
//
// A Set is a value: assigning or passing it copies every field, including the
// color triples, so two published sets never share state. Edits go through With,
// which returns a new Set.
type Set struct {
	// Animation
	TimeSpeed      float64
	RotationSpeed1 float64
	RotationSpeed2 float64
	WaveSpeed      float64

	// Colors
	BaseColor   Color
	AccentColor Color

	// Effects
	WaveAmplitude     float64
	ColorIntensity    float64
	RayStepSize       float64
	MaxDistance       float64
	Complexity        float64
	DistanceOffset    float64
	RayOriginDistance float64
	Iterations        float64
}

// Defaults returns the start-up parameter set.
func Defaults() Set {
	return Set{
		TimeSpeed:      1.0,
		RotationSpeed1: 0.4,
		RotationSpeed2: 0.3,
		WaveSpeed:      0.4,

		BaseColor:   Color{R: 0.3, G: 0.4, B: 0.5},
		AccentColor: Color{R: 8.0, G: 5.0, B: 7.0},

		WaveAmplitude:     0.7,
		ColorIntensity:    0.7,
		RayStepSize:       0.2,
		MaxDistance:       2.0,
		Complexity:        6.0,
		DistanceOffset:    2.0,
		RayOriginDistance: 7.0,
		Iterations:        10,
	}
}

// Validate reports the first field that is NaN or infinite. The shader generator
// assumes a valid set.
func (s Set) Validate() error {
	for _, f := range Fields() {
		if v := s.scalar(f); !finite(v) {
			return fmt.Errorf("%s = %v: %w", f, v, ErrNonFinite)
		}
	}
	for _, c := range Colors() {
		col := s.color(c)
		for _, ch := range Channels() {
			if v := col.channel(ch); !finite(v) {
				return fmt.Errorf("%s.%s = %v: %w", c, ch, v, ErrNonFinite)
			}
		}
	}
	return nil
}

// Value returns the value addressed by t. It panics on an invalid target.
func (s Set) Value(t Target) float64 {
	switch t.kind {
	case scalarTarget:
		return s.scalar(t.field)
	case channelTarget:
		return s.color(t.color).channel(t.channel)
	}
	panic(fmt.Sprintf("params: invalid target %v", t))
}

// With returns a copy of s with the value addressed by t replaced by v.
// The receiver is left untouched. It panics on an invalid target.
func (s Set) With(t Target, v float64) Set {
	switch t.kind {
	case scalarTarget:
		*s.scalarPtr(t.field) = v
		return s
	case channelTarget:
		*s.colorPtr(t.color).channelPtr(t.channel) = v
		return s
	}
	panic(fmt.Sprintf("params: invalid target %v", t))
}

func (s Set) scalar(f Field) float64 {
	return *s.scalarPtr(f)
}

// scalarPtr points into s, which is always a private copy at the call sites.
func (s *Set) scalarPtr(f Field) *float64 {
	switch f {
	case TimeSpeed:
		return &s.TimeSpeed
	case RotationSpeed1:
		return &s.RotationSpeed1
	case RotationSpeed2:
		return &s.RotationSpeed2
	case WaveSpeed:
		return &s.WaveSpeed
	case WaveAmplitude:
		return &s.WaveAmplitude
	case ColorIntensity:
		return &s.ColorIntensity
	case RayStepSize:
		return &s.RayStepSize
	case MaxDistance:
		return &s.MaxDistance
	case Complexity:
		return &s.Complexity
	case DistanceOffset:
		return &s.DistanceOffset
	case RayOriginDistance:
		return &s.RayOriginDistance
	case Iterations:
		return &s.Iterations
	}
	panic(fmt.Sprintf("params: unknown field %d", int(f)))
}

func (s Set) color(c ColorID) Color {
	return *s.colorPtr(c)
}

func (s *Set) colorPtr(c ColorID) *Color {
	switch c {
	case BaseColor:
		return &s.BaseColor
	case AccentColor:
		return &s.AccentColor
	}
	panic(fmt.Sprintf("params: unknown color %d", int(c)))
}

func (c Color) channel(ch Channel) float64 {
	return *c.channelPtr(ch)
}

func (c *Color) channelPtr(ch Channel) *float64 {
	switch ch {
	case Red:
		return &c.R
	case Green:
		return &c.G
	case Blue:
		return &c.B
	}
	panic(fmt.Sprintf("params: unknown channel %d", int(ch)))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package params

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithColorChannelLeavesPrevious(t *testing.T) {
	prev := Defaults()
	next := prev.With(ColorChannel(BaseColor, Green), 0.9)

	assert.Equal(t, Color{R: 0.3, G: 0.4, B: 0.5}, prev.BaseColor)
	assert.Equal(t, Color{R: 0.3, G: 0.9, B: 0.5}, next.BaseColor)

	// a second edit of the new set must not leak back either
	third := next.With(ColorChannel(BaseColor, Red), 0.1)
	assert.Equal(t, 0.3, next.BaseColor.R)
	assert.Equal(t, 0.1, third.BaseColor.R)
	assert.Equal(t, Color{R: 0.3, G: 0.4, B: 0.5}, prev.BaseColor)
}

func TestWithChangesExactlyOneValue(t *testing.T) {
	base := Defaults()
	var targets []Target
	for _, f := range Fields() {
		targets = append(targets, Scalar(f))
	}
	for _, c := range Colors() {
		for _, ch := range Channels() {
			targets = append(targets, ColorChannel(c, ch))
		}
	}
	require.Len(t, targets, 18)

	for _, edited := range targets {
		next := base.With(edited, 123.5)
		for _, other := range targets {
			if other == edited {
				assert.Equal(t, 123.5, next.Value(other), edited.String())
				continue
			}
			assert.Equal(t, base.Value(other), next.Value(other), "%s changed when editing %s", other, edited)
		}
	}
}

func TestTargetRangesAndLabels(t *testing.T) {
	lo, hi := Scalar(TimeSpeed).Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 3.0, hi)

	lo, hi = Scalar(Iterations).Range()
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 20.0, hi)

	lo, hi = ColorChannel(BaseColor, Blue).Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = ColorChannel(AccentColor, Red).Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10.0, hi)

	assert.Equal(t, "Rotation Speed 1", Scalar(RotationSpeed1).Label())
	assert.Equal(t, "Accent Color G", ColorChannel(AccentColor, Green).Label())
	assert.Equal(t, "accentColor.g", ColorChannel(AccentColor, Green).String())

	for _, f := range Fields() {
		lo, hi := Scalar(f).Range()
		assert.Less(t, lo, hi, f.String())
		v := Defaults().Value(Scalar(f))
		assert.GreaterOrEqual(t, v, lo, f.String())
		assert.LessOrEqual(t, v, hi, f.String())
	}
}

func TestInvalidTargets(t *testing.T) {
	assert.False(t, Target{}.Valid())
	assert.False(t, Scalar(Field(99)).Valid())
	assert.False(t, ColorChannel(AccentColor, Channel(3)).Valid())
	assert.Panics(t, func() { Defaults().Value(Target{}) })
	assert.Panics(t, func() { Defaults().With(Scalar(Field(-1)), 1) })
}

func TestValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())

	bad := Defaults().With(Scalar(Complexity), math.Inf(1))
	err := bad.Validate()
	require.ErrorIs(t, err, ErrNonFinite)
	assert.Contains(t, err.Error(), "complexity")

	bad = Defaults().With(ColorChannel(AccentColor, Blue), math.NaN())
	err = bad.Validate()
	require.ErrorIs(t, err, ErrNonFinite)
	assert.Contains(t, err.Error(), "accentColor.b")
}

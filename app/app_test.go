package app

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/shadertuner/bridge"
	"github.com/richinsley/shadertuner/dialog"
	"github.com/richinsley/shadertuner/params"
)

type fakeSurface struct {
	move    func(x float64)
	release func()
}

func (s *fakeSurface) Capture(move func(x float64), release func()) func() {
	s.move, s.release = move, release
	return func() { s.move, s.release = nil, nil }
}

type fakeRenderer struct {
	sources  []string
	playing  bool
	released bool
}

func (r *fakeRenderer) SetImage(source string) error {
	r.sources = append(r.sources, source)
	return nil
}

func (r *fakeRenderer) Play() error {
	r.playing = true
	return nil
}

func (r *fakeRenderer) Pause()          { r.playing = false }
func (r *fakeRenderer) Resize(w, h int) {}
func (r *fakeRenderer) Release()        { r.released = true }

type fakePrompter struct {
	asked   []params.Target
	values  []float64
	results []dialog.Result
}

func (p *fakePrompter) Ask(t params.Target, current float64) bool {
	p.asked = append(p.asked, t)
	p.values = append(p.values, current)
	return true
}

func (p *fakePrompter) Poll() (dialog.Result, bool) {
	if len(p.results) == 0 {
		return dialog.Result{}, false
	}
	res := p.results[0]
	p.results = p.results[1:]
	return res, true
}

type fixture struct {
	surface  *fakeSurface
	renderer *fakeRenderer
	prompter *fakePrompter
	titles   []string
	logs     *bytes.Buffer
	app      *App
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		surface:  &fakeSurface{},
		renderer: &fakeRenderer{},
		prompter: &fakePrompter{},
		logs:     &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := bridge.New(func(string) (bridge.Renderer, error) { return f.renderer, nil }, nil, logger)
	f.app = New(f.surface, b, f.prompter, func(s string) { f.titles = append(f.titles, s) }, cfg, logger)
	f.app.ResizeWindow(1280, 720)
	f.app.Start()
	return f
}

func (f *fixture) control(t *testing.T, target params.Target) (float64, float64) {
	for _, c := range f.app.Panel().Controls() {
		if c.Target == target {
			return float64(c.Track.X + c.Track.W/2), float64(c.Track.Y + c.Track.H/2)
		}
	}
	require.FailNow(t, "no control", target.String())
	return 0, 0
}

func (f *fixture) lastTitle() string {
	if len(f.titles) == 0 {
		return ""
	}
	return f.titles[len(f.titles)-1]
}

func TestStartMountsDefaults(t *testing.T) {
	f := newFixture(Config{Title: "tuner"})
	require.Len(t, f.renderer.sources, 1)
	assert.Contains(t, f.renderer.sources[0], "iTime * 1.000;")
	assert.True(t, f.renderer.playing)
	assert.Equal(t, []string{"tuner"}, f.titles)
}

func TestDragPublishes(t *testing.T) {
	f := newFixture(Config{Title: "tuner"})
	x, y := f.control(t, params.Scalar(params.TimeSpeed))

	require.True(t, f.app.Press(x, y))
	require.NotNil(t, f.surface.move)
	f.surface.move(x + 100)

	assert.Equal(t, 2.5, f.app.Current().TimeSpeed)
	require.Len(t, f.renderer.sources, 2)
	assert.Contains(t, f.renderer.sources[1], "iTime * 2.500;")
	assert.Equal(t, "tuner - Time Speed: 2.500", f.lastTitle())

	f.surface.release()
	assert.Nil(t, f.surface.move)
	assert.True(t, f.renderer.playing)
}

func TestHoverShowsValue(t *testing.T) {
	f := newFixture(Config{Title: "tuner"})
	x, y := f.control(t, params.ColorChannel(params.AccentColor, params.Green))

	f.app.Hover(x, y)
	assert.Equal(t, "tuner - Accent Color G: 5.000 (8.000 5.000 7.000 #ffffff)", f.lastTitle())

	n := len(f.titles)
	f.app.Hover(x+1, y)
	assert.Len(t, f.titles, n, "title is only set when it changes")

	f.app.Hover(0, 0)
	assert.Equal(t, "tuner", f.lastTitle())
}

func TestPublishDropsNonFinite(t *testing.T) {
	f := newFixture(Config{})
	f.app.Publish(params.Defaults().With(params.Scalar(params.WaveSpeed), math.NaN()))

	assert.Equal(t, params.Defaults(), f.app.Current())
	assert.Len(t, f.renderer.sources, 1)
	assert.Contains(t, f.logs.String(), "dropping parameter set")
}

func TestSecondaryEntersValue(t *testing.T) {
	f := newFixture(Config{})
	target := params.Scalar(params.Complexity)
	x, y := f.control(t, target)

	f.app.Secondary(x, y)
	require.Equal(t, []params.Target{target}, f.prompter.asked)
	assert.Equal(t, []float64{6}, f.prompter.values)

	f.prompter.results = []dialog.Result{
		{Target: target, Canceled: true},
		{Target: target, Text: "12.5x"},
	}
	f.app.Poll()
	assert.Equal(t, 6.0, f.app.Current().Complexity)
	f.app.Poll()
	assert.Equal(t, 12.5, f.app.Current().Complexity)
	f.app.Poll()

	f.app.Secondary(0, 0)
	assert.Len(t, f.prompter.asked, 1)
}

func TestTogglePause(t *testing.T) {
	f := newFixture(Config{Title: "tuner"})
	f.app.TogglePause()
	assert.False(t, f.renderer.playing)
	assert.Equal(t, "tuner (paused)", f.lastTitle())

	f.app.TogglePause()
	assert.True(t, f.renderer.playing)
	assert.Equal(t, "tuner", f.lastTitle())
}

func TestResetAndCollapse(t *testing.T) {
	f := newFixture(Config{Collapsed: true})
	assert.False(t, f.app.Panel().Expanded())
	assert.Empty(t, f.app.Panel().Controls())

	f.app.Publish(params.Defaults().With(params.Scalar(params.Iterations), 15))
	f.app.Reset()
	assert.Equal(t, params.Defaults(), f.app.Current())

	f.app.TogglePanel()
	assert.True(t, f.app.Panel().Expanded())
	assert.Len(t, f.app.Overlay(), 41)
}

func TestCloseMidDrag(t *testing.T) {
	f := newFixture(Config{})
	x, y := f.control(t, params.Scalar(params.WaveAmplitude))
	f.app.Press(x, y)
	require.NotNil(t, f.surface.move)

	f.app.Close()
	assert.Nil(t, f.surface.move)
	assert.True(t, f.renderer.released)
	_, dragging := f.app.Panel().Dragging()
	assert.False(t, dragging)
	assert.Equal(t, 0.7, f.app.Current().WaveAmplitude)
}

package bridge

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/shadertuner/params"
	"github.com/richinsley/shadertuner/shader"
)

type fakeRenderer struct {
	calls    []string
	sources  []string
	sizes    [][2]int
	playing  bool
	released bool
	imageErr error
}

func (r *fakeRenderer) SetImage(source string) error {
	r.calls = append(r.calls, "setImage")
	if r.imageErr != nil {
		return r.imageErr
	}
	r.sources = append(r.sources, source)
	return nil
}

func (r *fakeRenderer) Play() error {
	r.calls = append(r.calls, "play")
	r.playing = true
	return nil
}

func (r *fakeRenderer) Pause() {
	r.calls = append(r.calls, "pause")
	r.playing = false
}

func (r *fakeRenderer) Resize(w, h int) {
	r.sizes = append(r.sizes, [2]int{w, h})
}

func (r *fakeRenderer) Release() {
	r.calls = append(r.calls, "release")
	r.released = true
}

type fakeViewport struct {
	w, h    int
	fn      func(w, h int)
	cancels int
}

func (v *fakeViewport) OnResize(fn func(w, h int)) func() {
	v.fn = fn
	return func() {
		v.cancels++
		v.fn = nil
	}
}

func (v *fakeViewport) Size() (int, int) { return v.w, v.h }

func (v *fakeViewport) resize(w, h int) {
	v.w, v.h = w, h
	if v.fn != nil {
		v.fn(w, h)
	}
}

type fixture struct {
	renderer *fakeRenderer
	viewport *fakeViewport
	created  []string
	logs     *bytes.Buffer
	bridge   *Bridge
}

func newFixture(createErr error) *fixture {
	f := &fixture{
		renderer: &fakeRenderer{},
		viewport: &fakeViewport{w: 800, h: 600},
		logs:     &bytes.Buffer{},
	}
	factory := func(id string) (Renderer, error) {
		f.created = append(f.created, id)
		if createErr != nil {
			return nil, createErr
		}
		return f.renderer, nil
	}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f.bridge = New(factory, f.viewport, logger)
	return f
}

func TestMountCreatesOnceAndPlays(t *testing.T) {
	f := newFixture(nil)
	f.bridge.Mount(params.Defaults())
	f.bridge.Mount(params.Defaults())

	require.Len(t, f.created, 1)
	assert.True(t, strings.HasPrefix(f.created[0], "shader-canvas-"))
	assert.Equal(t, f.created[0], f.bridge.SurfaceID())
	assert.Equal(t, []string{"setImage", "play"}, f.renderer.calls)
	assert.Equal(t, shader.Generate(params.Defaults()), f.renderer.sources[0])
	assert.Equal(t, [][2]int{{800, 600}}, f.renderer.sizes)
	assert.True(t, f.bridge.Healthy())
}

func TestUpdateKeepsPlaying(t *testing.T) {
	f := newFixture(nil)
	f.bridge.Mount(params.Defaults())

	next := params.Defaults().With(params.Scalar(params.RotationSpeed1), 1.25)
	f.bridge.Update(next)
	f.bridge.Update(next)

	assert.Len(t, f.created, 1)
	assert.Equal(t, []string{"setImage", "play", "setImage"}, f.renderer.calls)
	assert.True(t, f.renderer.playing)
	require.Len(t, f.renderer.sources, 2)
	assert.Contains(t, f.renderer.sources[1], "time * 1.250;")
}

func TestUpdateBeforeMountIgnored(t *testing.T) {
	f := newFixture(nil)
	f.bridge.Update(params.Defaults())
	assert.Empty(t, f.created)
	assert.Empty(t, f.renderer.calls)
}

func TestCreateFailureIsRecoverable(t *testing.T) {
	f := newFixture(errors.New("no gl context"))

	assert.NotPanics(t, func() {
		f.bridge.Mount(params.Defaults())
		f.bridge.Update(params.Defaults().With(params.Scalar(params.WaveSpeed), 1))
		f.viewport.resize(10, 10)
		f.bridge.Close()
	})
	assert.False(t, f.bridge.Healthy())
	assert.Contains(t, f.logs.String(), "failed to create shader renderer")
	assert.Contains(t, f.logs.String(), "no gl context")
	assert.Equal(t, 1, f.viewport.cancels)
}

func TestSetImageFailureIsLoggedAndRetried(t *testing.T) {
	f := newFixture(nil)
	f.renderer.imageErr = errors.New("compile error")
	f.bridge.Mount(params.Defaults())

	assert.Contains(t, f.logs.String(), "failed to update shader")
	assert.True(t, f.renderer.playing)

	// the failed source was not recorded, so the same set is submitted again
	f.renderer.imageErr = nil
	f.bridge.Update(params.Defaults())
	require.Len(t, f.renderer.sources, 1)
	assert.Equal(t, shader.Generate(params.Defaults()), f.renderer.sources[0])
}

func TestResizeFollowsViewport(t *testing.T) {
	f := newFixture(nil)
	f.bridge.Mount(params.Defaults())

	f.viewport.resize(1920, 1080)
	assert.Equal(t, [][2]int{{800, 600}, {1920, 1080}}, f.renderer.sizes)
	assert.Len(t, f.created, 1)
}

func TestCloseStopsAndReleases(t *testing.T) {
	f := newFixture(nil)
	f.bridge.Mount(params.Defaults())

	f.bridge.Close()
	f.bridge.Close()

	assert.Equal(t, []string{"setImage", "play", "pause", "release"}, f.renderer.calls)
	assert.True(t, f.renderer.released)
	assert.Equal(t, 1, f.viewport.cancels)
	assert.Nil(t, f.viewport.fn)

	f.bridge.Update(params.Defaults().With(params.Scalar(params.TimeSpeed), 2))
	f.bridge.Mount(params.Defaults())
	assert.Len(t, f.created, 1)
	assert.Equal(t, []string{"setImage", "play", "pause", "release"}, f.renderer.calls)
}

func TestNewSurfaceIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewSurfaceID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSetPausedSurvivesUpdates(t *testing.T) {
	f := newFixture(nil)
	f.bridge.Mount(params.Defaults())

	f.bridge.SetPaused(true)
	f.bridge.SetPaused(true)
	assert.True(t, f.bridge.Paused())
	assert.False(t, f.renderer.playing)

	f.bridge.Update(params.Defaults().With(params.Scalar(params.Complexity), 8))
	assert.False(t, f.renderer.playing)

	f.bridge.SetPaused(false)
	assert.True(t, f.renderer.playing)
	assert.Equal(t, []string{"setImage", "play", "pause", "setImage", "play"}, f.renderer.calls)
}

type playFailRenderer struct {
	fakeRenderer
	plays int
}

func (r *playFailRenderer) Play() error {
	r.plays++
	if len(r.sources) == 0 {
		return errors.New("no image program installed")
	}
	r.playing = true
	return nil
}

func TestPlayStartsAfterFirstGoodSource(t *testing.T) {
	r := &playFailRenderer{fakeRenderer: fakeRenderer{imageErr: errors.New("compile error")}}
	b := New(func(string) (Renderer, error) { return r, nil }, nil, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	b.Mount(params.Defaults())
	assert.False(t, r.playing)
	assert.Equal(t, 1, r.plays)

	r.imageErr = nil
	b.Update(params.Defaults())
	assert.True(t, r.playing)
	assert.Equal(t, 2, r.plays)
}

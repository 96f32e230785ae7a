// Package app ties the parameter panel, the render bridge and the entry dialog
// together around the single published parameter set.
package app

import (
	"log/slog"

	"github.com/richinsley/shadertuner/bridge"
	"github.com/richinsley/shadertuner/dialog"
	"github.com/richinsley/shadertuner/drag"
	"github.com/richinsley/shadertuner/graphics"
	"github.com/richinsley/shadertuner/panel"
	"github.com/richinsley/shadertuner/params"
)

// Prompter asks for a typed value off the event loop.
type Prompter interface {
	Ask(t params.Target, current float64) bool
	Poll() (dialog.Result, bool)
}

// Config holds the presentation settings of an App.
type Config struct {
	Title     string
	Collapsed bool
}

// App owns the current parameter set. Every edit replaces it and is published
// to the bridge. All methods run on the event loop.
type App struct {
	current  params.Set
	panel    *panel.Panel
	bridge   *bridge.Bridge
	prompter Prompter
	setTitle func(string)
	log      *slog.Logger

	title string
	shown string
	hover params.Target
}

// New returns an App holding the default parameters. prompter and setTitle
// may be nil.
func New(surface drag.Surface, b *bridge.Bridge, prompter Prompter, setTitle func(string), cfg Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		current:  params.Defaults(),
		bridge:   b,
		prompter: prompter,
		setTitle: setTitle,
		title:    cfg.Title,
		log:      logger,
	}
	a.panel = panel.New(surface, drag.SourceFunc(a.Current), a.Publish)
	if cfg.Collapsed {
		a.panel.Toggle()
	}
	return a
}

// Current returns the published parameter set.
func (a *App) Current() params.Set { return a.current }

// Panel returns the parameter panel.
func (a *App) Panel() *panel.Panel { return a.panel }

// Start mounts the renderer with the current set.
func (a *App) Start() {
	a.bridge.Mount(a.current)
	a.refreshTitle()
}

// Publish makes s the current set and pushes it to the renderer. Sets with
// non-finite values are dropped.
func (a *App) Publish(s params.Set) {
	if err := s.Validate(); err != nil {
		a.log.Warn("dropping parameter set", "err", err)
		return
	}
	a.current = s
	a.bridge.Update(s)
	a.refreshTitle()
}

// Reset publishes the default parameters.
func (a *App) Reset() {
	a.panel.Close()
	a.Publish(params.Defaults())
	a.log.Info("parameters reset")
}

// TogglePanel expands or collapses the panel.
func (a *App) TogglePanel() {
	a.panel.Toggle()
	a.hover = params.Target{}
	a.refreshTitle()
}

// TogglePause pauses or resumes shader time.
func (a *App) TogglePause() {
	a.bridge.SetPaused(!a.bridge.Paused())
	a.refreshTitle()
}

// ResizeWindow lays the panel out for a window of w screen units.
func (a *App) ResizeWindow(w, h int) {
	a.panel.Resize(float32(w))
}

// Press handles a primary button press at (x, y) in screen units.
func (a *App) Press(x, y float64) bool {
	used := a.panel.Press(x, y)
	a.refreshTitle()
	return used
}

// Hover tracks the control under the pointer for the title.
func (a *App) Hover(x, y float64) {
	var t params.Target
	if c, ok := a.panel.ControlAt(x, y); ok {
		t = c.Target
	}
	if t != a.hover {
		a.hover = t
		a.refreshTitle()
	}
}

// Secondary opens the entry dialog for the control under (x, y).
func (a *App) Secondary(x, y float64) {
	if a.prompter == nil {
		return
	}
	c, ok := a.panel.ControlAt(x, y)
	if !ok {
		return
	}
	if !a.prompter.Ask(c.Target, a.current.Value(c.Target)) {
		a.log.Debug("entry dialog already open")
	}
}

// Poll applies a finished entry dialog. Call it once per frame.
func (a *App) Poll() {
	if a.prompter == nil {
		return
	}
	res, ok := a.prompter.Poll()
	if !ok || res.Canceled {
		return
	}
	a.panel.Enter(res.Target, res.Text)
	a.log.Debug("value entered", "target", res.Target.String(), "text", res.Text)
}

// Overlay returns the panel quads for the current set.
func (a *App) Overlay() []graphics.Quad {
	return a.panel.Overlay(a.current)
}

// Title returns the window title: the prefix, the control being dragged or
// hovered with its value, and the pause state.
func (a *App) Title() string {
	title := a.title
	t, ok := a.panel.Dragging()
	if !ok {
		t = a.hover
	}
	if t.Valid() {
		title += " - " + panel.Describe(a.current, t)
	}
	if a.bridge.Paused() {
		title += " (paused)"
	}
	return title
}

func (a *App) refreshTitle() {
	if a.setTitle == nil {
		return
	}
	if t := a.Title(); t != a.shown {
		a.shown = t
		a.setTitle(t)
	}
}

// Close ends any drag and releases the renderer.
func (a *App) Close() {
	a.panel.Close()
	a.bridge.Close()
}

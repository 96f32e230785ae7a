// Package dialog asks for a typed parameter value in a native entry dialog.
package dialog

import (
	"errors"
	"log/slog"

	"github.com/ncruces/zenity"

	"github.com/richinsley/shadertuner/panel"
	"github.com/richinsley/shadertuner/params"
)

// Result is the outcome of one prompt.
type Result struct {
	Target   params.Target
	Text     string
	Canceled bool
}

type entryFunc func(text string, options ...zenity.Option) (string, error)

// Prompter runs at most one dialog at a time on its own goroutine. Ask and
// Poll must be called from the event loop.
type Prompter struct {
	entry   entryFunc
	log     *slog.Logger
	results chan Result
	pending bool
}

// New returns a Prompter backed by zenity. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Prompter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prompter{
		entry:   zenity.Entry,
		log:     logger,
		results: make(chan Result, 1),
	}
}

// Ask opens a dialog for t prefilled with current. It returns false without
// opening anything while another dialog is still open.
func (p *Prompter) Ask(t params.Target, current float64) bool {
	if p.pending || !t.Valid() {
		return false
	}
	p.pending = true
	lo, hi := t.Range()
	prompt := t.Label() + " (" + panel.FormatValue(lo) + " to " + panel.FormatValue(hi) + ")"
	go func() {
		text, err := p.entry(prompt,
			zenity.Title("Set value"),
			zenity.EntryText(panel.FormatValue(current)),
		)
		res := Result{Target: t, Text: text}
		if err != nil {
			if !errors.Is(err, zenity.ErrCanceled) {
				p.log.Error("entry dialog failed", "target", t.String(), "err", err)
			}
			res.Canceled = true
		}
		p.results <- res
	}()
	return true
}

// Pending reports whether a dialog is open.
func (p *Prompter) Pending() bool { return p.pending }

// Poll returns the finished dialog's result, if any, without blocking.
func (p *Prompter) Poll() (Result, bool) {
	select {
	case res := <-p.results:
		p.pending = false
		return res, true
	default:
		return Result{}, false
	}
}

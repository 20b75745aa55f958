package ui

import (
	"github.com/pterm/pterm"
)

// Spinner shows progress for a long running step. On text output every
// method is a no-op.
type Spinner struct {
	printer *pterm.SpinnerPrinter
}

// StartSpinner starts a spinner with text when the printer targets a terminal.
func (p *Printer) StartSpinner(text string) *Spinner {
	if p.format != FormatTerminal {
		return &Spinner{}
	}
	sp, err := pterm.DefaultSpinner.WithWriter(p.errOut).WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return &Spinner{}
	}
	return &Spinner{printer: sp}
}

// Stop removes the spinner.
func (s *Spinner) Stop() {
	if s == nil || s.printer == nil {
		return
	}
	_ = s.printer.Stop()
}

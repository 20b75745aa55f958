package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/placeholder"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Printer writes results to out and errors to errOut.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	format  Format
	styles  Styles
	verbose bool
}

// NewPrinter creates a Printer. FormatAuto is resolved against out: a
// terminal gets FormatTerminal, anything else FormatText.
func NewPrinter(out, errOut io.Writer, format Format) *Printer {
	if format == FormatAuto {
		format = FormatText
		if f, ok := out.(*os.File); ok {
			format = DetectFormat(f)
		}
	}
	return &Printer{
		out:    out,
		errOut: errOut,
		format: format,
		styles: NewStyles(lipgloss.NewRenderer(out), format),
	}
}

// SetVerbose makes Created list every path instead of only the counts.
func (p *Printer) SetVerbose(v bool) { p.verbose = v }

// Format returns the resolved output format.
func (p *Printer) Format() Format { return p.format }

// Updated reports a template refresh.
func (p *Printer) Updated(res *types.UpdateResult) {
	verb := "Installed"
	if res.Replaced {
		verb = "Updated"
	}
	fmt.Fprintf(p.out, "%s templates from %s\n", p.styles.Success.Render(verb), res.URL)
	fmt.Fprintf(p.out, "  %s %s\n", p.styles.Muted.Render(fmt.Sprintf("%d entries in", res.Entries)), p.styles.Path.Render(res.TemplateRoot))
}

// Created reports a create operation.
func (p *Printer) Created(res *types.CreateResult) {
	fmt.Fprintf(p.out, "%s %s %s at %s\n",
		p.styles.Success.Render("Created"), res.Kind,
		p.styles.Header.Render(res.Name), p.styles.Path.Render(res.Destination))

	summary := fmt.Sprintf("  %d %s created", len(res.Created), plural(len(res.Created), "path", "paths"))
	if len(res.Skipped) > 0 {
		summary += fmt.Sprintf(", %d existing %s kept", len(res.Skipped), plural(len(res.Skipped), "path", "paths"))
	}
	fmt.Fprintln(p.out, p.styles.Muted.Render(summary))

	if p.verbose {
		for _, path := range res.Created {
			fmt.Fprintf(p.out, "    + %s\n", p.styles.Path.Render(path))
		}
		for _, path := range res.Skipped {
			fmt.Fprintf(p.out, "    = %s\n", p.styles.Muted.Render(path))
		}
	}

	for _, ph := range res.Unresolved {
		where := "content"
		if ph.InName {
			where = "name"
		}
		fmt.Fprintf(p.out, "  %s %s in %s of %s\n",
			p.styles.Warning.Render("unresolved"), placeholder.Token(ph.Key), where, ph.Path)
	}
}

// Error writes the one-line error report to errOut.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.errOut, p.styles.Error.Render(FormatError(err)))
}

// FormatError renders err as "Error [stage]: message". Errors without a
// stage render as "Error: message".
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var cerr *errors.CpgenError
	if !stderrors.As(err, &cerr) {
		return "Error: " + err.Error()
	}

	msg := cerr.Message
	if cerr.Wrapped != nil {
		msg += ": " + cerr.Wrapped.Error()
	}
	stage, _ := cerr.Details[errors.DetailStage].(string)
	if stage == "" {
		stage = errors.Stage(cerr.Code)
	}
	if stage == "" {
		return "Error: " + msg
	}
	return fmt.Sprintf("Error [%s]: %s", stage, strings.TrimSpace(msg))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

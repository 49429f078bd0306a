package errors

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer renders a Handler's reports as colored terminal diagnostics,
// matching the teacher's reach for github.com/fatih/color for CLI output
// rather than hand-rolled ANSI codes.
type Printer struct {
	errorPrefix color.Color
	warnPrefix  color.Color
	NoColor     bool
}

// NewPrinter creates a diagnostic printer with the conventional red/yellow
// phase-colored prefixes.
func NewPrinter() *Printer {
	return &Printer{
		errorPrefix: *color.New(color.FgRed, color.Bold),
		warnPrefix:  *color.New(color.FgYellow, color.Bold),
	}
}

// Print renders every report in h to w, errors before warnings, each with
// its stable code, phase, message, and primary span.
func (p *Printer) Print(w io.Writer, h *Handler) {
	for _, r := range h.Errors() {
		p.printOne(w, r, false)
	}
	for _, r := range h.Warnings() {
		p.printOne(w, r, true)
	}
}

func (p *Printer) printOne(w io.Writer, r *Report, warning bool) {
	prefix := p.errorPrefix
	label := "error"
	if warning {
		prefix = p.warnPrefix
		label = "warning"
	}
	if p.NoColor {
		fmt.Fprintf(w, "%s[%s]: %s\n", label, r.Code, r.Message)
	} else {
		prefix.Fprintf(w, "%s[%s]", label, r.Code)
		fmt.Fprintf(w, ": %s\n", r.Message)
	}
	if r.Span != nil {
		fmt.Fprintf(w, "  --> %s:%d:%d\n", r.Span.Start.File, r.Span.Start.Line, r.Span.Start.Column)
	}
	for _, s := range r.Secondary {
		fmt.Fprintf(w, "  ... %s:%d:%d\n", s.Start.File, s.Start.Line, s.Start.Column)
	}
	if r.Fix != nil && r.Fix.Suggestion != "" {
		fmt.Fprintf(w, "  help: %s\n", r.Fix.Suggestion)
	}
}

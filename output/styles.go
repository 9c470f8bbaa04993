// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"

	"github.com/coinbook/coinbook/validate"
)

// Styles provides styled output helpers for rendering diagnostics.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("2")).
		Bold().
		String()
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("1")).
		Bold().
		String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		Bold().
		String()
}

// Code returns a styled diagnostic code (cyan).
func (s *Styles) Code(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("6")).
		String()
}

// Dim returns dimmed text (for suggestions and secondary information).
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Severity styles text according to a diagnostic severity.
func (s *Styles) Severity(sev validate.Severity, text string) string {
	switch sev {
	case validate.SeverityError:
		return s.Error(text)
	case validate.SeverityWarning:
		return s.Warning(text)
	default:
		return s.Dim(text)
	}
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}

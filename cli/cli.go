// Package cli provides the coinbook command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/coinbook/coinbook/loader"
	"github.com/coinbook/coinbook/record"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
)

// statusLine writes one symbol-prefixed line, the shape every command uses
// for its outcome messages.
func statusLine(w io.Writer, style lipgloss.Style, symbol, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", style.Render(symbol), message)
}

func printSuccess(w io.Writer, message string) {
	statusLine(w, successStyle, "✓", message)
}

func printError(w io.Writer, message string) {
	statusLine(w, errorStyle, "✗", errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...any) {
	statusLine(w, infoStyle, "→", fmt.Sprintf(format, args...))
}

// confirm asks a yes/no question. Without a terminal on stdin the answer
// defaults to no, so scripted runs never destroy anything.
func confirm(question string) (bool, error) {
	if !stdinIsTerminal() {
		return false, nil
	}

	var yes bool
	prompt := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&yes)
	if err := prompt.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return yes, nil
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// InputFile is a positional document argument. A path reads from disk; "-"
// or no argument at all reads the whole document from stdin up front.
type InputFile struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *InputFile) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "" || filename == "-" {
		return f.readStdin()
	}
	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	return nil
}

// EnsureContents falls back to stdin when the argument was omitted entirely,
// in which case Decode never ran.
func (f *InputFile) EnsureContents() error {
	if f.Filename == "" {
		return f.readStdin()
	}
	return nil
}

func (f *InputFile) readStdin() error {
	contents, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = "<stdin>"
	f.Contents = contents
	return nil
}

// LoadDocument decodes the document, from the buffered stdin contents when
// present, otherwise from disk.
func (f *InputFile) LoadDocument(ldr *loader.Loader) (*record.Document, error) {
	if f.Contents != nil {
		return ldr.LoadBytes(f.Contents)
	}
	return ldr.Load(f.Filename)
}

package cli

import (
	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/coinbook/coinbook/loader"
)

// DoctorCmd provides doctor utilities for debugging coinbook documents.
type DoctorCmd struct {
	Dump DumpCmd `cmd:"" help:"Dump the parsed in-memory document structure."`
}

// DumpCmd prints the decoded document as a Go value tree, which makes it
// easy to see exactly what the loader produced from a file.
type DumpCmd struct {
	File InputFile `help:"Document to dump (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	doc, err := cmd.File.LoadDocument(loader.New())
	if err != nil {
		return err
	}

	repr.New(ctx.Stdout).Println(doc)
	return nil
}

package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/coinbook/coinbook/loader"
	"github.com/coinbook/coinbook/validate"
)

type StatsCmd struct {
	File InputFile `help:"Document to inspect (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *StatsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	doc, err := cmd.File.LoadDocument(loader.New())
	if err != nil {
		printError(ctx.Stderr, fmt.Sprintf("failed to load document: %v", err))
		return NewCommandError(1)
	}

	res := validate.Document(doc)

	rows := []struct {
		label string
		count int
	}{
		{"Currencies", res.Stats.Currencies},
		{"Accounts", res.Stats.Accounts},
		{"Transactions", res.Stats.Transactions},
		{"Budgets", res.Stats.Budgets},
		{"Recurring", res.Stats.Recurring},
	}

	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row.label); w > width {
			width = w
		}
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(ctx.Stdout, "%s  %d\n", runewidth.FillRight(row.label, width), row.count)
	}

	if !res.Valid {
		printInfof(ctx.Stderr, "document has %d validation error(s); run 'coinbook check' for details", len(res.Errors))
	}

	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/coinbook/coinbook/loader"
	"github.com/coinbook/coinbook/output"
	"github.com/coinbook/coinbook/telemetry"
	"github.com/coinbook/coinbook/validate"
)

type CheckCmd struct {
	File InputFile `help:"Document to validate (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewSpanCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	loadSpan := telemetry.FromContext(runCtx).Start(fmt.Sprintf("load %s", cmd.File.Filename))
	doc, err := cmd.File.LoadDocument(loader.New())
	loadSpan.End()
	if err != nil {
		printError(ctx.Stderr, fmt.Sprintf("failed to load document: %v", err))
		return NewCommandError(1)
	}

	checkSpan := telemetry.FromContext(runCtx).Start(fmt.Sprintf("check %s", cmd.File.Filename))
	res := validate.Document(doc)
	checkSpan.End()

	renderDiagnostics(ctx, res)

	if !res.Valid {
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(res.Errors)))
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, "Check passed")
	return nil
}

// renderDiagnostics prints every diagnostic, errors first, with its code
// and suggestion.
func renderDiagnostics(ctx *kong.Context, res *validate.DocumentResult) {
	styles := output.NewStyles(ctx.Stderr)

	write := func(diags []validate.Diagnostic) {
		for _, d := range diags {
			_, _ = fmt.Fprintf(ctx.Stderr, "%s %s %s\n",
				styles.Severity(d.Severity, string(d.Severity)),
				styles.Code(d.Code),
				d.Message,
			)
			if d.Suggestion != "" {
				_, _ = fmt.Fprintf(ctx.Stderr, "  %s\n", styles.Dim(d.Suggestion))
			}
		}
	}

	write(res.Errors)
	write(res.Warnings)
	write(res.Infos)
}

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/coinbook/coinbook/loader"
	"github.com/coinbook/coinbook/validate"
)

type WatchCmd struct {
	File string `help:"Document to watch." arg:"" type:"existingfile"`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: editors that write via
	// rename would otherwise drop the watch after the first save.
	dir := filepath.Dir(cmd.File)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(cmd.File)
	if err != nil {
		return err
	}

	printInfof(ctx.Stdout, "watching %s", cmd.File)
	cmd.runCheck(ctx)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			changed, err := filepath.Abs(event.Name)
			if err != nil || changed != target {
				continue
			}
			_, _ = fmt.Fprintln(ctx.Stdout)
			cmd.runCheck(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %v", err))

		case <-interrupt:
			return nil
		}
	}
}

// runCheck validates the file once and renders the outcome. Watch keeps
// running whatever the result; failures are reported, not fatal.
func (cmd *WatchCmd) runCheck(ctx *kong.Context) {
	doc, err := loader.New().Load(cmd.File)
	if err != nil {
		printError(ctx.Stderr, fmt.Sprintf("failed to load document: %v", err))
		return
	}

	res := validate.Document(doc)
	renderDiagnostics(ctx, res)

	if res.Valid {
		printSuccess(ctx.Stdout, "Check passed")
	} else {
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(res.Errors)))
	}
}

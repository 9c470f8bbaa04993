package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Validate a coinbook document and report diagnostics."`
	Stats  StatsCmd  `cmd:"" help:"Show entity counts for a document."`
	Watch  WatchCmd  `cmd:"" help:"Re-validate a document whenever it changes."`
	Init   InitCmd   `cmd:"" help:"Create a new coinbook document interactively."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging documents."`
}

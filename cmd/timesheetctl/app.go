package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"timesheet/internal/cli"
	"timesheet/internal/config"
	"timesheet/internal/log"
	"timesheet/internal/report"
)

var (
	backendName = flag.String("backend", "sqlite", "Data backend (sqlite, memory)")
	dbPath      = flag.String("db", "", "Path to the SQLite database. Defaults to SQLITE_DB_PATH.")
	raw         = flag.Bool("raw", false, "Print reports as plain markdown")
	verbose     = flag.Bool("v", false, "Log to stderr")
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// openApp loads the environment configuration, applies the global flags
// and opens the backend.
func openApp(ctx context.Context) (*cli.App, error) {
	cli.LoadEnvFile()
	cfg := config.Load()
	cfg.DataBackend = *backendName
	if *dbPath != "" {
		cfg.SQLiteDBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.Discard()
	if *verbose {
		logger = cli.SetupLogger(stderr, "debug")
	}
	return cli.NewApp(ctx, cfg, logger)
}

// printMarkdown writes md to stdout, styled for the terminal unless -raw is set.
func printMarkdown(md string) error {
	if *raw {
		_, err := io.WriteString(stdout, md)
		return err
	}
	out, err := report.Terminal(md, 0)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, out)
	return err
}

func errorf(format string, args ...any) {
	fmt.Fprintf(stderr, "Error: %s\n", fmt.Sprintf(format, args...))
}

// closeApp reports a failed close without changing the exit status.
func closeApp(app *cli.App) {
	if err := app.Close(); err != nil {
		errorf("%v", err)
	}
}

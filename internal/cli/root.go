// Package cli implements the spese command line: import, export and
// reporting over the same store the server uses.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"spese/internal/app"
	"spese/internal/config"
	"spese/internal/log"
)

// env carries what every command needs once the root has run.
type env struct {
	owner    int64
	currency string
	verbose  bool

	app *app.App
}

// NewRootCommand builds the command tree. Output goes to out, diagnostics
// to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "spese-cli",
		Short:         "Track spending records from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context(), errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.Int64Var(&e.owner, "owner", 1, "owner whose records are used")
	flags.StringVar(&e.currency, "currency", "", "display currency (default DISPLAY_CURRENCY)")
	flags.BoolVarP(&e.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		addCmd(e),
		listCmd(e),
		importCmd(e),
		exportCmd(e),
		clearCmd(e),
		reportCmd(e),
		calendarCmd(e),
		categoriesCmd(e),
		normalizeCmd(e),
		convertCmd(e),
		ratesCmd(e),
	)
	for _, cmd := range root.Commands() {
		if cmd.RunE != nil {
			cmd.RunE = e.closing(cmd.RunE)
		}
	}
	return root
}

// Execute runs the CLI against the process's stdio and exits non-zero on
// failure.
func Execute(ctx context.Context) {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (e *env) open(ctx context.Context, errOut io.Writer) error {
	if e.owner < 1 {
		return fmt.Errorf("--owner must be a positive integer")
	}

	cfg := config.Load()
	level := log.ParseLevel("warn")
	if e.verbose {
		level = log.ParseLevel("debug")
	}
	logger := log.New(log.Config{Level: level, Format: cfg.LogFormat, Component: log.ComponentCLI, Output: errOut})

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	e.app = a
	if e.currency == "" {
		e.currency = cfg.DisplayCurrency
	}
	return nil
}

// closing wraps run so the app is released whether or not run fails.
func (e *env) closing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if cerr := e.close(); err == nil {
			err = cerr
		}
		return err
	}
}

func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

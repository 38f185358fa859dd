// Package cli implements the creditrisk command line: offline training,
// evaluation of persisted artifacts and audit table migrations.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/observability"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(os.Stderr, false)

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "creditrisk",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "Train, evaluate and operate the credit default risk model",
		Flags: []urfave.Flag{
			debugFlag,
		},
		Commands: []*urfave.Command{
			trainCmd,
			evaluateCmd,
			migrateCmd,
			eventsCmd,
		},
		Before: func(c *urfave.Context) error {
			if c.Bool(debugFlag.Name) {
				initLogging(c.App.ErrWriter, true)
			}
			return nil
		},
	}
}

func initLogging(w io.Writer, debug bool) {
	if w == nil {
		w = os.Stderr
	}
	level := "info"
	if debug {
		level = "debug"
	}
	slog.SetDefault(observability.NewLogger(w, observability.LogConfig{Level: level, Format: formatText}))
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML, "yml":
		return yaml.NewEncoder(w).Encode(v)
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Package main is the entry point for the gridstorm command.
package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/dshills/gridstorm/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCommand is the base command all subcommands are added to.
var rootCommand = &cobra.Command{
	Use:           path.Base(os.Args[0]),
	Short:         "Viewport-virtualized data grid",
	Long:          "Render large tabular datasets through a scrolling viewport, on the terminal or as text.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var globalOpts app.Options

func init() {
	fs := rootCommand.PersistentFlags()
	fs.StringVarP(&globalOpts.ConfigPath, "config", "c", "", "path to the TOML grid configuration")
	fs.StringVarP(&globalOpts.DataPath, "data", "d", "", "path to a JSON array of rows")
	fs.StringVar(&globalOpts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&globalOpts.LogFormat, "log-format", "", "log format (text, json)")
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options returns the global options, checking the flags every command
// needs.
func options() (app.Options, error) {
	opts := globalOpts
	if opts.DataPath == "" {
		return opts, fmt.Errorf("--data is required")
	}
	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}
	return opts, nil
}

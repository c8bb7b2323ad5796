// Package cli parses command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/flightworks/derive/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("derive", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
derive - post-processes a recorded flight into derived signals, events, and phases.

Usage:
  derive [options] CONTAINER_PATH

Arguments:
  CONTAINER_PATH
    Directory of the flight-data container.

Options:
`)
		flagSet.PrintDefaults()
	}

	containerFlag := flagSet.String("container", "", "Directory of the flight-data container.")
	flightFlag := flagSet.String("flight", "", "Flight id to process.")
	profileFlag := flagSet.String("profile", "", "Path to an .hcl analysis profile file or directory.")
	dotFlag := flagSet.String("dot", "", "Write a Graphviz rendering of the dependency graph to this path.")
	airportFlag := flagSet.String("airport-url", "", "Base URL of the airport/runway lookup service.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *containerFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		slog.Debug("No container path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if *flightFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "a flight id is required: pass -flight"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ContainerPath: path,
		FlightID:      *flightFlag,
		ProfilePath:   *profileFlag,
		DotPath:       *dotFlag,
		AirportURL:    *airportFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}

// Package cmdutil provides shared utilities for sysauth commands.
package cmdutil

import (
	"errors"
	"io"

	"github.com/marmos91/sysauth/internal/cli/output"
	"github.com/marmos91/sysauth/internal/logger"
	"github.com/marmos91/sysauth/pkg/config"
)

// Exit codes of the lookup commands. Not-found matches getent.
const (
	ExitOK               = 0
	ExitError            = 1
	ExitNotFound         = 2
	ExitTemporaryFailure = 3
	ExitUnavailable      = 4
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
	Output     string
	NoColor    bool
}

// ConfigPath returns the --config value, or config.DefaultPath.
func ConfigPath() string {
	if Flags.ConfigPath == "" {
		return config.DefaultPath
	}
	return Flags.ConfigPath
}

// GetPrinter returns a printer for the --output format writing to w.
func GetPrinter(w io.Writer) (*output.Printer, error) {
	format, err := output.ParseFormat(Flags.Output)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(w, format, !Flags.NoColor), nil
}

// InitLogger configures logging for a CLI run. CLI diagnostics always go to
// stderr so stdout stays parseable.
func InitLogger(defaultLevel string) error {
	level := Flags.LogLevel
	if level == "" {
		level = defaultLevel
	}
	return logger.Init(logger.Config{Level: level, Output: "stderr"})
}

// ExitCodeError makes the process exit with Code. An empty Message prints
// nothing.
type ExitCodeError struct {
	Code    int
	Message string
}

func (e *ExitCodeError) Error() string {
	return e.Message
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}

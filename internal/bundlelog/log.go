// Package bundlelog provides the leveled logger shared by every pass of the
// bundling pipeline. It wraps charmbracelet/log the same way the rest of the
// retrieval pack's CLIs do, so bundler output looks like log output from a
// real build tool rather than ad-hoc fmt.Println calls.
package bundlelog

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the package-level logger used by pkg/bundler, pkg/scheduler and
// cmd/bundledemo. It can be replaced wholesale by a host embedding this
// module (e.g. to redirect into its own structured logger).
var Logger *log.Logger

func init() {
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "bundle",
	})
}

// SetVerbose raises the logger to debug level and turns on caller/timestamp
// reporting, mirroring the --verbose flag wiring in cmd/bundledemo.
func SetVerbose(verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		ReportCaller:    verbose,
		Prefix:          "bundle",
	})
}

// Debug logs a debug message with structured key/value pairs.
func Debug(msg string, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }

// Info logs an info message with structured key/value pairs.
func Info(msg string, keyvals ...interface{}) { Logger.Info(msg, keyvals...) }

// Warn logs a warning message with structured key/value pairs.
func Warn(msg string, keyvals ...interface{}) { Logger.Warn(msg, keyvals...) }

// Error logs an error message with structured key/value pairs.
func Error(msg string, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }

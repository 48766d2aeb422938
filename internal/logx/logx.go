// Package logx holds the small set of logging helpers used across timeline2svg.
package logx

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	debugMode bool
	out       io.Writer = os.Stderr

	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugMode = enabled
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return debugMode
}

// SetOutput redirects all log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// Debugf prints debug messages when debug mode is enabled.
func Debugf(format string, args ...any) {
	if debugMode {
		_, _ = fmt.Fprintf(out, "[DEBUG] "+format+"\n", args...)
	}
}

// Warn logs a warning. err may be nil.
func Warn(msg string, err error) {
	if err != nil {
		_, _ = warnColor.Fprintf(out, "Warn %s: %v\n", msg, err)
		return
	}
	_, _ = warnColor.Fprintf(out, "Warn %s\n", msg)
}

// Error logs an error without exiting.
func Error(msg string, err error) {
	_, _ = errorColor.Fprintf(out, "Error %s: %v\n", msg, err)
}

// Fatal logs an error and exits the program.
func Fatal(msg string, err error) {
	Error(msg, err)
	os.Exit(1)
}

// Package logging provides colored, leveled diagnostics for the askgpt CLI.
//
// All diagnostics go to stderr: stdout is reserved for the generated
// question and answer. Debug output is suppressed unless verbose mode is
// enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// verbose controls whether Debugf produces output.
var verbose bool

// Color printers for each log level.
var (
	warnPrefix  = color.New(color.FgYellow).SprintFunc()
	errorPrefix = color.New(color.FgRed).SprintFunc()
	debugPrefix = color.New(color.FgBlue).SprintFunc()
)

// SetVerbose enables or disables Debugf output.
func SetVerbose(v bool) {
	verbose = v
}

// Verbose reports whether debug output is enabled.
func Verbose() bool {
	return verbose
}

// Warnf prints a warning to stderr in yellow.
func Warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnPrefix("[WARN]")+" "+fmt.Sprintf(format, args...))
}

// Errorf prints an error message to stderr in red.
func Errorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorPrefix("[ERROR]")+" "+fmt.Sprintf(format, args...))
}

// Debugf prints a debug message to stderr in blue, only in verbose mode.
func Debugf(format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintln(os.Stderr, debugPrefix("[DEBUG]")+" "+fmt.Sprintf(format, args...))
}

// Package logger provides leveled logging to stderr with colored labels.
package logger

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	warnLabel  = color.New(color.FgYellow)
	infoLabel  = color.New(color.FgCyan)
	debugLabel = color.New(color.FgHiBlack)
)

var (
	std     = log.New(os.Stderr, "", 0)
	verbose bool
)

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	verbose = v
}

// Verbose reports whether Debug output is enabled.
func Verbose() bool {
	return verbose
}

const (
	errorText = "[ERROR] "
	warnText  = "[WARN ] "
	infoText  = "[INFO ] "
	debugText = "[DEBUG] "
)

// mylog prepends the colored level string to log.Printf.
// Arguments are handled in the manner of [fmt.Printf].
func mylog(label *color.Color, level string, format string, args ...interface{}) {
	std.Printf(label.Sprint(level)+format, args...)
}

// Error prints to the standard logger, adding an error label.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...interface{}) {
	mylog(errorLabel, errorText, format, args...)
}

// Warn prints to the standard logger, adding a warn label.
// Arguments are handled in the manner of [fmt.Printf].
func Warn(format string, args ...interface{}) {
	mylog(warnLabel, warnText, format, args...)
}

// Info prints to the standard logger, adding an info label.
// Arguments are handled in the manner of [fmt.Printf].
func Info(format string, args ...interface{}) {
	mylog(infoLabel, infoText, format, args...)
}

// Debug prints only when verbose output is enabled.
func Debug(format string, args ...interface{}) {
	if !verbose {
		return
	}
	mylog(debugLabel, debugText, format, args...)
}

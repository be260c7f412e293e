package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Logger provides color-coded logging plus a console pane for echoing
// the external commands a run executes
type Logger struct {
	Verbose bool
	Quiet   bool
}

// NewLogger creates a new logger
func NewLogger(verbose, quiet, noColor bool) *Logger {
	if noColor {
		color.NoColor = true
	}
	return &Logger{
		Verbose: verbose,
		Quiet:   quiet,
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Quiet {
		return
	}
	fmt.Fprintln(os.Stderr, color.BlueString("[INFO] "+fmt.Sprintf(format, args...)))
}

// Success logs a success message
func (l *Logger) Success(format string, args ...interface{}) {
	if l.Quiet {
		return
	}
	fmt.Fprintln(os.Stderr, color.GreenString("[SUCCESS] "+fmt.Sprintf(format, args...)))
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("[WARNING] "+fmt.Sprintf(format, args...)))
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.RedString("[ERROR] "+fmt.Sprintf(format, args...)))
}

// Debug logs a debug message (only if verbose is enabled)
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	fmt.Fprintln(os.Stderr, color.CyanString("[DEBUG] "+fmt.Sprintf(format, args...)))
}

// Console prints a progress line the way the triage console shows it:
// "$"-prefixed lines are external commands, everything else is a status
// message from a job.
func (l *Logger) Console(prefix, text string) {
	if l.Quiet {
		return
	}
	if prefix == "$" {
		fmt.Println(color.HiBlackString("$ %s", text))
		return
	}
	fmt.Printf("%s%s\n", prefix, text)
}

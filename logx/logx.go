// Package logx centralizes the namespaced diagnostic style the core uses
// everywhere: "<Component>: <message>". It does not replace the standard
// log package, it just wraps it consistently, the way the teacher wraps
// fmt/log calls in server.go and root_view.go.
package logx

import (
	"fmt"
	"log"
	"os"
)

// Level gates which severities are printed. Raised by repeating -v on the
// command line, per spec.md section 6 ("up to three stack").
type Level int

const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
	LevelTrace
)

var verbosity = LevelWarn

// SetVerbosity sets the process-wide log level. Called once at startup
// from the number of -v flags seen.
func SetVerbosity(v int) {
	switch {
	case v <= 0:
		verbosity = LevelWarn
	case v == 1:
		verbosity = LevelInfo
	case v == 2:
		verbosity = LevelDebug
	default:
		verbosity = LevelTrace
	}
}

// Debug logs a namespaced debug message, visible at -vvv.
func Debug(component, format string, args ...interface{}) {
	if verbosity >= LevelTrace {
		emit(component, format, args...)
	}
}

// Info logs a namespaced info message, visible at -vv and above.
func Info(component, format string, args ...interface{}) {
	if verbosity >= LevelDebug {
		emit(component, format, args...)
	}
}

// Warning logs a namespaced warning. Always visible; warnings never alter
// control flow (spec.md section 7).
func Warning(component, format string, args ...interface{}) {
	emit(component, format, args...)
}

// Recoverable logs a namespaced recoverable-error message: a fallback was
// taken and the caller should continue.
func Recoverable(component, format string, args ...interface{}) {
	emit(component, "recoverable: "+format, args...)
}

// LogicError logs a namespaced logic-error message. The triggering
// operation becomes a no-op; the simulation continues (spec.md section 7).
func LogicError(component, format string, args ...interface{}) {
	emit(component, "logic error: "+format, args...)
}

// Fatal logs a namespaced fatal diagnostic and aborts the process with a
// non-zero exit code (spec.md section 7 and section 6's exit codes).
func Fatal(component, format string, args ...interface{}) {
	emit(component, "fatal: "+format, args...)
	os.Exit(2)
}

func emit(component, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("%s: %s", component, msg)
}

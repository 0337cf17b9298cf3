package logger

import (
	"io"
	"log"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
)

// Level orders log output; messages below the current level are dropped.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	std   = log.New(os.Stderr, "", log.LstdFlags)
	level atomic.Int32

	fatalLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	errorLabel = color.New(color.FgRed).SprintFunc()
	warnLabel  = color.New(color.FgYellow).SprintFunc()
	infoLabel  = color.New(color.FgCyan).SprintFunc()
	debugLabel = color.New(color.FgHiBlack).SprintFunc()
)

func init() {
	level.Store(int32(LevelInfo))
}

// SetLevel sets the lowest level that is printed.
func SetLevel(l Level) {
	level.Store(int32(l))
}

// SetOutput redirects the logger, mainly for tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetFlags sets the underlying [log.Logger] flags.
func SetFlags(flags int) {
	std.SetFlags(flags)
}

func mylog(l Level, label string, format string, args ...any) {
	if l < Level(level.Load()) {
		return
	}
	std.Printf(label+format, args...)
}

// Fatal prints with a fatal label and exits.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...any) {
	std.Fatalf(fatalLabel("[FATAL] ")+format, args...)
}

// Error prints to the standard logger, adding an error label.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...any) {
	mylog(LevelError, errorLabel("[ERROR] "), format, args...)
}

// Warn prints to the standard logger, adding a warn label.
// Arguments are handled in the manner of [fmt.Printf].
func Warn(format string, args ...any) {
	mylog(LevelWarn, warnLabel("[WARN ] "), format, args...)
}

// Info prints to the standard logger, adding an info label.
// Arguments are handled in the manner of [fmt.Printf].
func Info(format string, args ...any) {
	mylog(LevelInfo, infoLabel("[INFO ] "), format, args...)
}

// Debug prints to the standard logger, adding a debug label.
func Debug(format string, args ...any) {
	mylog(LevelDebug, debugLabel("[DEBUG] "), format, args...)
}

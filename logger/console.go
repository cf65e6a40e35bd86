// Package logger provides the console logger used by the laymix command.
//
// Messages are written as "[HH:MM:SS] [LEVEL] message" lines and filtered by a
// minimum level. Level names are colored when the destination is a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const (
	levelDebug int = iota
	levelInfo
	levelWarn
	levelError
)

var levels = map[string]int{
	"debug": levelDebug,
	"info":  levelInfo,
	"warn":  levelWarn,
	"error": levelError,
}

// ConsoleLogger writes leveled, timestamped messages to a writer. It is safe
// for concurrent use.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger writing to writer. A nil writer
// discards everything. logLevel is one of debug, info, warn, error
// (case-insensitive); anything else means info.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    NormalizeLevel(logLevel),
		colorOutput: isTerminal(writer),
		now:         time.Now,
	}
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	return ok
}

// NormalizeLevel lower-cases level and falls back to "info" when unknown.
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if _, ok := levels[normalized]; ok {
		return normalized
	}
	return "info"
}

// isTerminal is true for os.Stdout and os.Stderr unless fatih/color decided
// output should stay plain (no TTY, NO_COLOR set).
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

func (cl *ConsoleLogger) Level() string {
	return cl.logLevel
}

func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if levels[strings.ToLower(level)] < levels[cl.logLevel] {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := cl.now().Format("15:04:05")
	label := level
	if cl.colorOutput {
		label = colorize(level)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, label, message)
}

func colorize(level string) string {
	switch level {
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

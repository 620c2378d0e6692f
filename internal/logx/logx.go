// Package logx provides the small prefixed-logger convention used across
// the modem's subsystems: a thin wrapper over the standard library
// logger, not a structured logging framework.
package logx

import (
	"log"
	"os"
)

// Logger writes prefixed lines through the standard library logger.
type Logger struct {
	prefix string
	std    *log.Logger
}

// New returns a Logger that tags every line with "[prefix]".
func New(prefix string) *Logger {
	return &Logger{
		prefix: prefix,
		std:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Printf logs a formatted line.
func (l *Logger) Printf(format string, args ...any) {
	l.std.Printf("["+l.prefix+"] "+format, args...)
}

// Println logs a single line.
func (l *Logger) Println(args ...any) {
	line := append([]any{"[" + l.prefix + "]"}, args...)
	l.std.Println(line...)
}

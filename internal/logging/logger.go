// ABOUTME: Structured logger construction for the CLI and MCP server
// ABOUTME: Wraps charmbracelet/log behind a small interface packages depend on

// Package logging defines the structured-logging interface used across
// carlog and builds the default charm logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is a structured logger. The variadic keyvals are key-value pairs:
//
//	logger.Warn("slot unreadable, using defaults", "slot", slot, "err", err)
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}

var _ Logger = (*log.Logger)(nil)

// New builds a logger writing to w at the named level ("debug", "info", "warn", "error").
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.WarnLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := log.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "carlog",
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

// Default logs warnings and above to stderr.
func Default() *log.Logger {
	l, _ := New(os.Stderr, "warn")
	return l
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

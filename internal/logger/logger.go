package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger is a small wrapper around slog that carries a scope (package or
// component name) plus an optional file/function so call sites read as
// logger.New("CowController").Function("List").
type Logger struct {
	scope    string
	file     string
	function string
}

var (
	initOnce sync.Once
	base     *slog.Logger
)

func handler() *slog.Logger {
	initOnce.Do(func() {
		level := slog.LevelInfo
		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(base)
	})
	return base
}

func New(scope string) Logger {
	return Logger{scope: scope}
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) attrs(args ...any) []any {
	out := make([]any, 0, len(args)+6)
	out = append(out, "scope", l.scope)
	if l.file != "" {
		out = append(out, "file", l.file)
	}
	if l.function != "" {
		out = append(out, "function", l.function)
	}
	return append(out, args...)
}

func (l Logger) Info(msg string, args ...any) {
	handler().Info(msg, l.attrs(args...)...)
}

func (l Logger) Debug(msg string, args ...any) {
	handler().Debug(msg, l.attrs(args...)...)
}

func (l Logger) Warn(msg string, args ...any) {
	handler().Warn(msg, l.attrs(args...)...)
}

// Err logs the error and returns it wrapped with the message, so callers
// can log and propagate in one statement.
func (l Logger) Err(msg string, err error, args ...any) error {
	handler().Error(msg, l.attrs(append(args, "error", err)...)...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs the error without returning one. For failure paths that are
// reported but not propagated.
func (l Logger) Er(msg string, err error, args ...any) {
	handler().Error(msg, l.attrs(append(args, "error", err)...)...)
}

// Error logs and returns a new error built from the message alone.
func (l Logger) Error(msg string, args ...any) error {
	handler().Error(msg, l.attrs(args...)...)
	return fmt.Errorf("%s", msg)
}

func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}

// ErMsg logs the message at error level without returning anything.
func (l Logger) ErMsg(msg string, args ...any) {
	handler().Error(msg, l.attrs(args...)...)
}

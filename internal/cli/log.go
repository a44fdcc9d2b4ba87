// Package cli implements the resolve command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log; loggers
// travel via context.Context so every command shares the --verbose
// setting. Settings may also come from an optional TOML config file, with
// flags taking precedence.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

// newLogger creates a logger with timestamp formatting that writes to w
// and filters messages at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or the default
// logger when none is set.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

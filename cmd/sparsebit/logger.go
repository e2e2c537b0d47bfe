// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"
	"log/slog"
)

// Logger wraps slog.Logger with consistent field names for the CLI.
type Logger struct {
	*slog.Logger
}

// NewTextLogger creates a Logger that writes human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NewJSONLogger creates a Logger that writes JSON logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSource adds the input name to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// LogRejected logs an input line that could not be applied.
func (l *Logger) LogRejected(ctx context.Context, lineNo int, line string, err error) {
	l.WarnContext(ctx, "line rejected",
		"line", lineNo,
		"text", line,
		"error", err,
	)
}

// LogLoad logs the summary of a load.
func (l *Logger) LogLoad(ctx context.Context, applied, rejected int) {
	if rejected > 0 {
		l.WarnContext(ctx, "load completed with rejected lines",
			"applied", applied,
			"rejected", rejected,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"applied", applied,
		)
	}
}

// LogProbe logs the result of a single probe.
func (l *Logger) LogProbe(ctx context.Context, addr string, hit bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "probe failed",
			"addr", addr,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "probe completed",
			"addr", addr,
			"hit", hit,
		)
	}
}

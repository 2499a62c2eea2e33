package main

import (
	"context"
	"io"
	log "log/slog"
	"os"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// setupLogging installs tint on stdout and, when file is set, JSON lines in
// a rotating file. The returned closer flushes the file.
func setupLogging(level, file string) io.Closer {
	lvl := logLevelMap[level]

	var h log.Handler = tint.NewHandler(os.Stdout, &tint.Options{
		Level: lvl,
	})

	var closer io.Closer = io.NopCloser(nil)
	if file != "" {
		rot := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		h = teeHandler{h, log.NewJSONHandler(rot, &log.HandlerOptions{Level: lvl})}
		closer = rot
	}

	log.SetDefault(log.New(h))
	return closer
}

type teeHandler []log.Handler

func (t teeHandler) Enabled(ctx context.Context, lvl log.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r log.Record) error {
	var first error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t teeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) log.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

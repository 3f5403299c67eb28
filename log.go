package htmlbuilder

import (
	"context"
	"log/slog"
)

type logCtxKey struct{}

// LoggingContext returns a copy of ctx carrying logger. Resolution and the
// handlers returned by Site log to it; without one, nothing gets logged.
func LoggingContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, logger)
}

func logger(ctx context.Context) *slog.Logger {
	log, ok := ctx.Value(logCtxKey{}).(*slog.Logger)
	if !ok || log == nil {
		return slog.New(discardHandler{})
	}
	return log
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }

func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler { return d }

func (d discardHandler) WithGroup(string) slog.Handler { return d }

package log

import (
	"context"
	"log/slog"
)

// tee fans records out to the console handler and the file handler.
type tee struct {
	console slog.Handler
	file    slog.Handler
}

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	return t.console.Enabled(ctx, level) || t.file.Enabled(ctx, level)
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	err := t.console.Handle(ctx, r.Clone())
	if ferr := t.file.Handle(ctx, r); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tee{console: t.console.WithAttrs(attrs), file: t.file.WithAttrs(attrs)}
}

func (t tee) WithGroup(name string) slog.Handler {
	return tee{console: t.console.WithGroup(name), file: t.file.WithGroup(name)}
}

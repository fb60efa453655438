package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// NewContext returns a copy of ctx carrying l as the request logger.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// With returns a copy of ctx carrying the request logger extended with fields.
func With(ctx context.Context, fields ...any) context.Context {
	return NewContext(ctx, From(ctx).With(fields...))
}

// WithUser tags the request logger with the authenticated user.
func WithUser(ctx context.Context, userID int64, role string) context.Context {
	return With(ctx, slog.Group("user", slog.Int64("id", userID), slog.String("role", role)))
}

// From returns the request logger, falling back to the process logger and
// then to slog's default.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if l := LoggerWrapper(); l != nil {
		return l
	}
	return slog.Default()
}

// Package ctxutil carries request-scoped identifiers through a context.
package ctxutil

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	subscriberEmailKey ctxKey = iota
	requestIDKey
	runIDKey
)

func WithSubscriberEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, subscriberEmailKey, email)
}

// SubscriberEmailFromCtx reports false when no non-empty email is stored.
func SubscriberEmailFromCtx(ctx context.Context) (string, bool) {
	email := stringValue(ctx, subscriberEmailKey)
	return email, email != ""
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromCtx(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithRunID tags ctx with the id of the batch run it belongs to.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

func RunIDFromCtx(ctx context.Context) string {
	return stringValue(ctx, runIDKey)
}

// LogAttrs returns request_id and run_id attributes for the ids present
// in ctx.
func LogAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if id := RequestIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if id := RunIDFromCtx(ctx); id != "" {
		attrs = append(attrs, slog.String("run_id", id))
	}
	return attrs
}

func stringValue(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

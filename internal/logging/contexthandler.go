// Package logging carries request- and plan-scoped [slog.Attr] through [context.Context].
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

type contextKey string

const slogAttrs contextKey = "slogAttrs"

type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler constructs a ContextHandler that adds new [slog.Attr] to the log messages from [context.Context]
// to the underlying [slog.Handler].
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{handler: h}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle enriches the log record with [slog.Attr] stored in context with [WithAttrs].
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(Attrs(ctx)...)
	if err := h.handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("handle log record: %w", err)
	}
	return nil
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// WithAttrs adds [...slog.Attr] to the [context.Context] that enriches the log messages handled by [ContextHandler].
//
// The attrs of the parent context are copied so that sibling contexts never see each other's attrs.
func WithAttrs(ctx context.Context, attr ...slog.Attr) context.Context {
	return context.WithValue(ctx, slogAttrs, slices.Concat(Attrs(ctx), attr))
}

// Attrs returns the attrs stored in ctx with [WithAttrs].
func Attrs(ctx context.Context) []slog.Attr {
	if v, ok := ctx.Value(slogAttrs).([]slog.Attr); ok {
		return v
	}
	return nil
}

package logger

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans a record out to several handlers
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler creates a handler writing to every given handler
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether any handler accepts the level
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every handler enabled for its level
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs implements slog.Handler
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return NewMultiHandler(handlers...)
}

// WithGroup implements slog.Handler
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return NewMultiHandler(handlers...)
}

// CategoryHandler only passes records tagged with its category
type CategoryHandler struct {
	category string
	next     slog.Handler
	tagged   bool
}

// NewCategoryHandler wraps next so that it only sees records carrying
// CategoryKey=category.
func NewCategoryHandler(category string, next slog.Handler) *CategoryHandler {
	return &CategoryHandler{category: category, next: next}
}

// Enabled implements slog.Handler
func (c *CategoryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return c.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (c *CategoryHandler) Handle(ctx context.Context, r slog.Record) error {
	if !c.tagged && !hasCategory(r, c.category) {
		return nil
	}
	return c.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler
func (c *CategoryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	tagged := c.tagged
	for _, a := range attrs {
		if a.Key == CategoryKey && a.Value.String() == c.category {
			tagged = true
		}
	}
	return &CategoryHandler{category: c.category, next: c.next.WithAttrs(attrs), tagged: tagged}
}

// WithGroup implements slog.Handler
func (c *CategoryHandler) WithGroup(name string) slog.Handler {
	return &CategoryHandler{category: c.category, next: c.next.WithGroup(name), tagged: c.tagged}
}

func hasCategory(r slog.Record, category string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == CategoryKey && a.Value.String() == category {
			found = true
			return false
		}
		return true
	})
	return found
}

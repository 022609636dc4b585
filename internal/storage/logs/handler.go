// Package logs persists slog records through a Sink. Attributes are flattened
// into dotted keys, so a value logged under group "fetch" as "page" is stored
// as "fetch.page".
package logs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]any
}

type Sink interface {
	Insert(ctx context.Context, entry LogEntry) error
}

const defaultTimeout = 2 * time.Second

type Handler struct {
	sink    Sink
	level   slog.Leveler
	timeout time.Duration
	prefix  string
	attrs   map[string]any
	onError func(error)
}

type Option func(*Handler)

// WithErrorHandler receives insert failures instead of the logger.
func WithErrorHandler(fn func(error)) Option {
	return func(h *Handler) {
		h.onError = fn
	}
}

func NewHandler(sink Sink, level slog.Leveler, timeout time.Duration, opts ...Option) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	h := &Handler{sink: sink, level: level, timeout: timeout, attrs: map[string]any{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if h == nil || h.sink == nil {
		return false
	}
	return level >= h.level.Level()
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if h == nil || h.sink == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		data[k] = v
	}
	r.Attrs(func(attr slog.Attr) bool {
		flatten(data, h.prefix, attr)
		return true
	})

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	defer cancel()
	err := h.sink.Insert(ctx, LogEntry{
		Time:    r.Time.UTC(),
		Level:   r.Level.String(),
		Message: r.Message,
		Attrs:   data,
	})
	if err == nil {
		return nil
	}
	err = fmt.Errorf("log sink insert: %w", err)
	if h.onError != nil {
		h.onError(err)
		return nil
	}
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		flatten(next.attrs, h.prefix, attr)
	}
	return next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = join(h.prefix, name)
	return next
}

func (h *Handler) clone() *Handler {
	next := *h
	next.attrs = make(map[string]any, len(h.attrs))
	for k, v := range h.attrs {
		next.attrs[k] = v
	}
	return &next
}

func flatten(m map[string]any, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		group := prefix
		if attr.Key != "" {
			group = join(prefix, attr.Key)
		}
		for _, child := range attr.Value.Group() {
			flatten(m, group, child)
		}
		return
	}
	m[join(prefix, attr.Key)] = attrValue(attr.Value)
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func attrValue(value slog.Value) any {
	switch value.Kind() {
	case slog.KindBool:
		return value.Bool()
	case slog.KindDuration:
		return value.Duration().String()
	case slog.KindFloat64:
		return value.Float64()
	case slog.KindInt64:
		return value.Int64()
	case slog.KindString:
		return value.String()
	case slog.KindTime:
		return value.Time().UTC()
	case slog.KindUint64:
		return value.Uint64()
	case slog.KindAny:
		switch typed := value.Any().(type) {
		case error:
			return typed.Error()
		case fmt.Stringer:
			return typed.String()
		default:
			return typed
		}
	default:
		return value.Any()
	}
}

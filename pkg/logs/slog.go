package logs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/propgen/opsctl/pkg/term"
)

type termHandler struct {
	t     *term.Term
	attrs []slog.Attr
	group string // dot-separated prefix for attrs added after WithGroup
}

func newTermHandler(t *term.Term) *termHandler {
	return &termHandler{t: t}
}

func NewTermLogger(t *term.Term) *slog.Logger {
	return slog.New(newTermHandler(t))
}

func (h *termHandler) Handle(ctx context.Context, r slog.Record) error {
	msg := r.Message
	attrs := h.attrs
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))
		return true
	})
	if len(attrs) > 0 {
		var builder strings.Builder
		builder.WriteString(msg)
		builder.WriteString(" {")
		for i, a := range attrs {
			if i > 0 {
				builder.WriteString(", ")
			}
			strVal := a.String()
			if len(strVal) > 80 {
				runes := []rune(strVal)
				strVal = string(runes[:77]) + "..."
			}
			builder.WriteString(strVal)
		}
		builder.WriteString("}")
		msg = builder.String()
	}

	switch r.Level {
	case slog.LevelDebug:
		_, err := h.t.Debug(msg)
		return err
	case slog.LevelInfo:
		_, err := h.t.Info(msg)
		return err
	case slog.LevelWarn:
		_, err := h.t.Warn(msg)
		return err
	case slog.LevelError:
		_, err := h.t.Error(msg)
		return err
	default:
		_, err := h.t.Println(msg)
		return err
	}
}

func (h *termHandler) qualify(a slog.Attr) slog.Attr {
	if h.group == "" {
		return a
	}
	return slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
}

func (h *termHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.t.DoDebug()
	}
	return true
}

func (h *termHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

func (h *termHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group == "" {
		clone.group = name
	} else {
		clone.group += "." + name
	}
	return &clone
}

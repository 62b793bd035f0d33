package logger

import (
	"context"
	"log/slog"
	"regexp"
)

// sensitiveKeys are attribute keys whose values are replaced outright.
var sensitiveKeys = map[string]struct{}{
	"access_token":  {},
	"password":      {},
	"token":         {},
	"authorization": {},
	"api_key":       {},
}

// phonePattern matches E.164-ish phone numbers so they don't end up verbatim
// in log sinks that don't need them.
var phonePattern = regexp.MustCompile(`\+[1-9]\d{7,14}`)

const redacted = "***REDACTED***"

// RedactHandler scrubs known-sensitive attribute keys and phone-shaped
// strings from every record before it reaches next.
type RedactHandler struct {
	next slog.Handler
}

func NewRedactHandler(next slog.Handler) *RedactHandler {
	return &RedactHandler{next: next}
}

func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	nr := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, nr)
}

func redactAttr(a slog.Attr) slog.Attr {
	if _, sensitive := sensitiveKeys[a.Key]; sensitive {
		return slog.String(a.Key, redacted)
	}
	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		if phonePattern.MatchString(v) {
			return slog.String(a.Key, phonePattern.ReplaceAllString(v, redacted))
		}
	}
	return a
}

func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RedactHandler{next: h.next.WithAttrs(attrs)}
}

func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{next: h.next.WithGroup(name)}
}

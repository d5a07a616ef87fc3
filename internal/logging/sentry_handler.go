package logging

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// SentryHandler is an slog.Handler that reports ERROR+ records to Sentry.
// The "error" attribute becomes the event exception, "run_id" a tag, and every
// other attribute an extra.
type SentryHandler struct {
	hub   *sentry.Hub
	attrs []slog.Attr
	group string
}

func NewSentryHandler(hub *sentry.Hub) *SentryHandler {
	return &SentryHandler{hub: hub}
}

// Enabled only handles ERROR and above.
func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *SentryHandler) Handle(_ context.Context, record slog.Record) error {
	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	event.Message = record.Message
	event.Timestamp = record.Time
	if event.Tags == nil {
		event.Tags = make(map[string]string)
	}
	if event.Extra == nil {
		event.Extra = make(map[string]interface{})
	}

	apply := func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		switch a.Key {
		case "error":
			event.Exception = append(event.Exception, sentry.Exception{
				Type:  "error",
				Value: a.Value.String(),
			})
		case "run_id":
			event.Tags["run_id"] = a.Value.String()
		default:
			event.Extra[key] = a.Value.Any()
		}
		return true
	}

	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	h.hub.CaptureEvent(event)
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

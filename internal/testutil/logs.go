// Package testutil holds in-memory fakes shared by the package tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry is one captured log record.
type LogEntry struct {
	Level slog.Level
	Msg   string
	Attrs map[string]any
}

// LogHandler is a slog.Handler that records every entry it handles.
type LogHandler struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	attrs   []slog.Attr
}

// NewLogger returns a logger that records into the returned handler.
func NewLogger() (*slog.Logger, *LogHandler) {
	h := &LogHandler{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
	return slog.New(h), h
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := LogEntry{Level: r.Level, Msg: r.Message, Attrs: make(map[string]any)}
	for _, a := range h.attrs {
		entry.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.entries = append(*h.entries, entry)
	return nil
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{mu: h.mu, entries: h.entries, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return h
}

// Entries returns a copy of the captured entries.
func (h *LogHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LogEntry(nil), *h.entries...)
}

// Find returns the entries with the given level and message.
func (h *LogHandler) Find(level slog.Level, msg string) []LogEntry {
	var found []LogEntry
	for _, e := range h.Entries() {
		if e.Level == level && e.Msg == msg {
			found = append(found, e)
		}
	}
	return found
}

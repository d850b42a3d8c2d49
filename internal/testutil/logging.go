package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// TestLogHandler captures records in memory. Handlers derived with WithAttrs or
// WithGroup share the same store, so a logger.With(...) chain is still observable.
type TestLogHandler struct {
	store  *logStore
	attrs  []slog.Attr
	prefix string
}

type logStore struct {
	mu      sync.Mutex
	records []TestLogRecord
}

type TestLogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

func NewTestLogHandler() *TestLogHandler {
	return &TestLogHandler{store: &logStore{records: make([]TestLogRecord, 0)}}
}

func (h *TestLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *TestLogHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+record.NumAttrs())
	for _, attr := range h.attrs {
		attrs[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrs[h.prefix+attr.Key] = attr.Value.Any()
		return true
	})

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.records = append(h.store.records, TestLogRecord{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   attrs,
	})

	return nil
}

func (h *TestLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &TestLogHandler{store: h.store, prefix: h.prefix}
	next.attrs = append(next.attrs, h.attrs...)
	for _, attr := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.prefix + attr.Key, Value: attr.Value})
	}
	return next
}

// WithGroup flattens group members into dotted keys, e.g. "request.path".
func (h *TestLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &TestLogHandler{store: h.store, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func (h *TestLogHandler) GetRecords() []TestLogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return append([]TestLogRecord(nil), h.store.records...)
}

func (h *TestLogHandler) GetRecordsByLevel(level slog.Level) []TestLogRecord {
	var filtered []TestLogRecord
	for _, record := range h.GetRecords() {
		if record.Level == level {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// FindRecord returns the first record at level with exactly this message.
func (h *TestLogHandler) FindRecord(level slog.Level, message string) (TestLogRecord, bool) {
	for _, record := range h.GetRecordsByLevel(level) {
		if record.Message == message {
			return record, true
		}
	}
	return TestLogRecord{}, false
}

func (h *TestLogHandler) Reset() {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.records = h.store.records[:0]
}

func (h *TestLogHandler) ContainsMessage(level slog.Level, message string) bool {
	_, ok := h.FindRecord(level, message)
	return ok
}

func (h *TestLogHandler) CountByLevel(level slog.Level) int {
	return len(h.GetRecordsByLevel(level))
}

package logs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type stubSink struct {
	entries []LogEntry
	err     error
}

func (s *stubSink) Insert(_ context.Context, entry LogEntry) error {
	s.entries = append(s.entries, entry)
	return s.err
}

func TestHandler_WritesEntry(t *testing.T) {
	sink := &stubSink{}
	logger := slog.New(NewHandler(sink, slog.LevelInfo, time.Second))

	logger.Info("page applied", "fetch_id", "abc", "kept", 3)

	if len(sink.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Message != "page applied" || entry.Level != slog.LevelInfo.String() {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Attrs["fetch_id"] != "abc" || entry.Attrs["kept"] != int64(3) {
		t.Fatalf("unexpected attrs %#v", entry.Attrs)
	}
}

func TestHandler_FiltersLevel(t *testing.T) {
	sink := &stubSink{}
	logger := slog.New(NewHandler(sink, slog.LevelWarn, time.Second))

	logger.Info("ignored")
	logger.Warn("kept")

	if len(sink.entries) != 1 || sink.entries[0].Message != "kept" {
		t.Fatalf("expected only the warning, got %+v", sink.entries)
	}
}

func TestHandler_FlattensGroups(t *testing.T) {
	sink := &stubSink{}
	logger := slog.New(NewHandler(sink, slog.LevelInfo, time.Second)).
		WithGroup("history").
		With("account_id", 42)

	logger.Info("grouped",
		slog.Group("page", slog.Int("reported", 100)),
		slog.Group("page", slog.Bool("done", true)),
	)

	attrs := sink.entries[0].Attrs
	if attrs["history.account_id"] != int64(42) {
		t.Fatalf("expected history.account_id=42, got %#v", attrs)
	}
	if attrs["history.page.reported"] != int64(100) || attrs["history.page.done"] != true {
		t.Fatalf("expected merged page group, got %#v", attrs)
	}
}

func TestHandler_WithAttrsDoesNotLeak(t *testing.T) {
	sink := &stubSink{}
	base := slog.New(NewHandler(sink, slog.LevelInfo, time.Second))
	child := base.With("kind", "Champion")

	child.Info("child")
	base.Info("base")

	if sink.entries[0].Attrs["kind"] != "Champion" {
		t.Fatalf("expected kind on child entry, got %#v", sink.entries[0].Attrs)
	}
	if _, ok := sink.entries[1].Attrs["kind"]; ok {
		t.Fatalf("parent handler picked up child attrs: %#v", sink.entries[1].Attrs)
	}
}

func TestNewHandler_DefaultTimeoutForNonPositive(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		if h := NewHandler(&stubSink{}, slog.LevelInfo, timeout); h.timeout != defaultTimeout {
			t.Fatalf("timeout %v: expected default, got %v", timeout, h.timeout)
		}
	}
}

func TestHandler_NilSink(t *testing.T) {
	h := NewHandler(nil, slog.LevelInfo, time.Second)
	if h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("handler without sink should be disabled")
	}
	record := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	if err := h.Handle(context.Background(), record); err != nil {
		t.Fatalf("expected nil error for nil sink, got %v", err)
	}
}

func TestHandler_InsertErrors(t *testing.T) {
	boom := errors.New("connection refused")
	record := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	err := NewHandler(&stubSink{err: boom}, slog.LevelInfo, time.Second).Handle(context.Background(), record)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped sink error, got %v", err)
	}

	var reported error
	h := NewHandler(&stubSink{err: boom}, slog.LevelInfo, time.Second, WithErrorHandler(func(err error) { reported = err }))
	if err := h.Handle(context.Background(), record); err != nil {
		t.Fatalf("expected error to be routed to the handler, got %v", err)
	}
	if !errors.Is(reported, boom) {
		t.Fatalf("expected reported sink error, got %v", reported)
	}
}

func TestHandler_FormatsErrorAttr(t *testing.T) {
	sink := &stubSink{}
	slog.New(NewHandler(sink, slog.LevelInfo, time.Second)).Error("boom", "error", errors.New("kaboom"))

	if sink.entries[0].Attrs["error"] != "kaboom" {
		t.Fatalf("expected attrs.error=kaboom, got %#v", sink.entries[0].Attrs["error"])
	}
}

func TestMultiHandler_SinkReceivesDebugWhenTerminalFilters(t *testing.T) {
	sink := &stubSink{}
	text := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slog.NewMultiHandler(text, NewHandler(sink, slog.LevelDebug, time.Second)))

	logger.Debug("debug-log", "scope", "db")

	if len(sink.entries) != 1 || sink.entries[0].Level != slog.LevelDebug.String() {
		t.Fatalf("expected one debug entry, got %+v", sink.entries)
	}
}

package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type captureHandler struct {
	level slog.Level
	fail  bool
	msgs  []string
}

func (h *captureHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.msgs = append(h.msgs, r.Message)
	if h.fail {
		return errors.New("sink failed")
	}
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func record(level slog.Level, msg string) slog.Record {
	return slog.NewRecord(time.Now(), level, msg, 0)
}

func TestMultiHandlerFansOutByLevel(t *testing.T) {
	stdout := &captureHandler{level: slog.LevelInfo}
	db := &captureHandler{level: slog.LevelError}
	m := NewMultiHandler(stdout, db)

	if err := m.Handle(context.Background(), record(slog.LevelInfo, "routine")); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if err := m.Handle(context.Background(), record(slog.LevelError, "broken")); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if len(stdout.msgs) != 2 {
		t.Errorf("stdout got %d records, want 2", len(stdout.msgs))
	}
	if len(db.msgs) != 1 || db.msgs[0] != "broken" {
		t.Errorf("db sink got %v, want only the error record", db.msgs)
	}
}

func TestMultiHandlerDeliversPastFailingSink(t *testing.T) {
	failing := &captureHandler{level: slog.LevelInfo, fail: true}
	healthy := &captureHandler{level: slog.LevelInfo}
	m := NewMultiHandler(failing, healthy)

	err := m.Handle(context.Background(), record(slog.LevelInfo, "hello"))
	if err == nil {
		t.Error("Handle() returned nil despite a failing sink")
	}
	if len(healthy.msgs) != 1 {
		t.Errorf("healthy sink got %d records, want 1", len(healthy.msgs))
	}
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("LOG_LEVEL="+tt.value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			if got := levelFromEnv(); got != tt.want {
				t.Errorf("levelFromEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

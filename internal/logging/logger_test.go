package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	// Without a request ID the default logger comes back unmodified.
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("plain context should return the default logger")
	}

	// With a request ID the logger is enriched, not the default.
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")
	if got := FromContext(ctx); got == slog.Default() {
		t.Error("request-scoped context should return an enriched logger")
	}
}

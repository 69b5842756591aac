package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseLevel(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLevel(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json stdout", func(t *testing.T) {
		logger, err := New(Config{Level: "info", Format: "json", Output: "stdout", Service: "test"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if logger == nil {
			t.Fatal("New() returned nil logger")
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		if _, err := New(Config{Level: "loud"}); err == nil {
			t.Fatal("New() expected error for invalid level, got nil")
		}
	})

	t.Run("file output", func(t *testing.T) {
		path := t.TempDir() + "/logs/app.log"
		logger, err := New(Config{Level: "debug", Format: "text", Output: path, Service: "test"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		logger.Info("hello")
	})
}

func TestWithComponent(t *testing.T) {
	logger, err := New(Config{Output: "stderr", Service: "test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	child := logger.WithComponent("store")
	if child == nil || child.Logger == nil {
		t.Fatal("WithComponent() returned nil")
	}
}

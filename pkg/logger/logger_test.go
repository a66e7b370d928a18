package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/tradelens/backend/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("New returned nil")
	}

	// Derived loggers must not be nil either
	if log.WithField("key", "value") == nil {
		t.Error("WithField returned nil")
	}
	if log.WithFields(map[string]interface{}{"a": 1, "b": 2}) == nil {
		t.Error("WithFields returned nil")
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	// Must not panic
	log.Info("discarded")
	log.WithField("k", "v").Debug("discarded")
}

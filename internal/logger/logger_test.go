package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info().Str("file", "fatura_janeiro_nubank.csv").Msg("statement loaded")

	out := buf.String()
	if !strings.Contains(out, `"message":"statement loaded"`) {
		t.Errorf("expected message field, got %q", out)
	}
	if !strings.Contains(out, `"file":"fatura_janeiro_nubank.csv"`) {
		t.Errorf("expected file field, got %q", out)
	}
	if !strings.Contains(out, `"time":`) {
		t.Errorf("expected timestamp, got %q", out)
	}
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := New(tt.level).GetLevel(); got != tt.expected {
				t.Errorf("New(%q).GetLevel(): got %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	logger.Info("dispatching", AlgorithmKey, "slope")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "dispatching" {
		t.Errorf("msg = %v, want %q", entry["msg"], "dispatching")
	}
	if entry[AlgorithmKey] != "slope" {
		t.Errorf("%s = %v, want %q", AlgorithmKey, entry[AlgorithmKey], "slope")
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatText, Output: &buf})

	logger.Info("dispatching", AlgorithmKey, "aspect")

	out := buf.String()
	if !strings.Contains(out, "msg=dispatching") {
		t.Errorf("output %q missing text-format message", out)
	}
	if !strings.Contains(out, "algorithm=aspect") {
		t.Errorf("output %q missing algorithm field", out)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug level", "debug", true, true},
		{"info level", "info", false, true},
		{"error level", "error", false, false},
		{"unknown level defaults to info", "verbose", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&Config{Level: tt.level, Format: FormatText, Output: &buf})

			logger.Debug("debug message")
			logger.Info("info message")

			out := buf.String()
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info message"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestTrace(t *testing.T) {
	t.Run("enabled at trace level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "trace", Format: FormatText, Output: &buf})

		Trace(logger, "request payload", slog.String("dem_path", "/data/dem.tif"))

		if !strings.Contains(buf.String(), "request payload") {
			t.Error("trace message not logged at trace level")
		}
	})

	t.Run("suppressed at debug level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "debug", Format: FormatText, Output: &buf})

		Trace(logger, "request payload")

		if buf.Len() != 0 {
			t.Errorf("trace message logged at debug level: %q", buf.String())
		}
	})
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantLevel  string
		wantFormat Format
		wantSource bool
	}{
		{
			name:       "defaults",
			env:        map[string]string{},
			wantLevel:  "info",
			wantFormat: FormatJSON,
		},
		{
			name:       "debug flag wins",
			env:        map[string]string{"TERRAIN_MCP_DEBUG": "1", "TERRAIN_MCP_LOG_LEVEL": "error"},
			wantLevel:  "debug",
			wantFormat: FormatJSON,
			wantSource: true,
		},
		{
			name:       "app level beats generic level",
			env:        map[string]string{"TERRAIN_MCP_LOG_LEVEL": "Error", "LOG_LEVEL": "debug"},
			wantLevel:  "error",
			wantFormat: FormatJSON,
		},
		{
			name:       "generic level and text format",
			env:        map[string]string{"LOG_LEVEL": "warn", "LOG_FORMAT": "TEXT"},
			wantLevel:  "warn",
			wantFormat: FormatText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"TERRAIN_MCP_DEBUG", "TERRAIN_MCP_LOG_LEVEL", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := FromEnv()
			if cfg.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", cfg.Level, tt.wantLevel)
			}
			if cfg.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", cfg.Format, tt.wantFormat)
			}
			if cfg.AddSource != tt.wantSource {
				t.Errorf("AddSource = %v, want %v", cfg.AddSource, tt.wantSource)
			}
		})
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	WithRequestID(logger, "req-123").Info("outcome")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry[RequestIDKey] != "req-123" {
		t.Errorf("%s = %v, want %q", RequestIDKey, entry[RequestIDKey], "req-123")
	}
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_ProductionMode(t *testing.T) {
	logger := New("production")

	if logger == nil {
		t.Fatal("Expected logger to be created")
	}
	if logger.GetZerolog().GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level in production, got %s", logger.GetZerolog().GetLevel())
	}
}

func TestNew_DevelopmentMode(t *testing.T) {
	logger := New("development")

	if logger.GetZerolog().GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level in development, got %s", logger.GetZerolog().GetLevel())
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	logger.Debug("debug message", Fields{"key1": "value1"})
	logger.Info("info message", Fields{"user": "testuser"})
	logger.Warn("warning message", Fields{"warning_type": "ownership_total"})
	logger.Error("error occurred", errors.New("test error"), Fields{"context": "database"})

	output := buf.String()
	for _, want := range []string{
		"debug message", "value1",
		"info message", "testuser",
		"warning message", "ownership_total",
		"error occurred", "test error", "database",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log output to contain %q", want)
		}
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	childLogger := logger.With(Fields{
		"component": "api",
		"version":   "1.0",
	})
	childLogger.Info("test message", nil)

	output := buf.String()
	if !strings.Contains(output, "api") {
		t.Error("Expected log output to contain component field from context")
	}
	if !strings.Contains(output, "1.0") {
		t.Error("Expected log output to contain version field from context")
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	logger.WithRequestID("req-12345").Info("request received", nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON output, got error: %v", err)
	}
	if entry["request_id"] != "req-12345" {
		t.Errorf("Expected request_id field, got %v", entry["request_id"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	logger.WithComponent("payments").Info("payment recorded", nil)

	if !strings.Contains(buf.String(), `"component":"payments"`) {
		t.Errorf("Expected component field, got %s", buf.String())
	}
}

func TestLogLevels_Production(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.Debug("debug message", nil)
	debugOutput := buf.String()
	buf.Reset()

	logger.Info("info message", nil)
	infoOutput := buf.String()

	if strings.Contains(debugOutput, "debug message") {
		t.Error("Debug message should not appear at info level")
	}
	if !strings.Contains(infoOutput, "info message") {
		t.Error("Info message should appear at info level")
	}
}

func TestNop(t *testing.T) {
	// Should not panic and should not write anywhere
	logger := Nop()
	logger.Info("discarded", Fields{"k": "v"})
	logger.With(Fields{"a": 1}).Warn("discarded", nil)
}

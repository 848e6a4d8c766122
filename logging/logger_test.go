package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func capture() (*PanelLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Output = buf
	cfg.AddSource = false
	cfg.Level = LogLevelDebug
	return NewLogger(cfg), buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestPanelLogger_KeyValueArgs(t *testing.T) {
	logger, buf := capture()
	logger.Info("round finished", "exchange_number", 3, "degraded", true)

	entry := lastEntry(t, buf)
	if entry["msg"] != "round finished" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["exchange_number"] != float64(3) || entry["degraded"] != true {
		t.Errorf("key/value args not attached: %v", entry)
	}
}

func TestPanelLogger_ContextualAttrs(t *testing.T) {
	logger, buf := capture()
	logger.WithComponent("sequencer").WithSession("panel-123").WithPersona("dr-x").Info("generating")

	entry := lastEntry(t, buf)
	if entry["component"] != "sequencer" || entry["session_id"] != "panel-123" || entry["persona_id"] != "dr-x" {
		t.Errorf("contextual attrs missing: %v", entry)
	}
}

func TestPanelLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Output = buf
	cfg.AddSource = false
	cfg.Level = LogLevelWarn
	logger := NewLogger(cfg)

	logger.Debug("hidden")
	logger.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("below-level messages should be suppressed: %s", buf.String())
	}
	logger.Warn("visible")
	if buf.Len() == 0 {
		t.Fatal("warn should pass the filter")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":    LogLevelDebug,
		"INFO":     LogLevelInfo,
		" warn ":   LogLevelWarn,
		"warning":  LogLevelWarn,
		"error":    LogLevelError,
		"whatever": LogLevelInfo,
		"":         LogLevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerInterfaceCompliance(t *testing.T) {
	var _ Logger = (*PanelLogger)(nil)
	var _ Logger = (*SlogAdapter)(nil)
	var _ Logger = NoOpLogger{}
	var _ RoundLogger = (*PanelLogger)(nil)
	var _ RoundLogger = NoOpLogger{}
}

func TestLogGeneration_FailureLevel(t *testing.T) {
	logger, buf := capture()

	logger.LogGeneration("mock-model", 42, 120*time.Millisecond, true, nil)
	entry := lastEntry(t, buf)
	if entry["msg"] != "Generation completed" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["token_count"] != float64(42) {
		t.Fatalf("unexpected token_count: %v", entry["token_count"])
	}

	logger.LogGeneration("mock-model", 0, 10*time.Millisecond, false, errors.New("boom"))
	entry = lastEntry(t, buf)
	if entry["msg"] != "Generation failed" || entry["level"] != "ERROR" {
		t.Fatalf("failure entry wrong: %v", entry)
	}
	if entry["error"] != "boom" {
		t.Fatalf("expected error attr, got %v", entry["error"])
	}
}

func TestLogRound_DegradedEscalatesToWarn(t *testing.T) {
	logger, buf := capture()

	logger.LogRound("panel-abc", 2, 3, 0, 50*time.Millisecond)
	entry := lastEntry(t, buf)
	if entry["msg"] != "Panel round completed" || entry["level"] != "INFO" {
		t.Fatalf("clean round entry wrong: %v", entry)
	}

	logger.LogRound("panel-abc", 3, 3, 1, 50*time.Millisecond)
	entry = lastEntry(t, buf)
	if entry["msg"] != "Panel round completed with degraded responses" || entry["level"] != "WARN" {
		t.Fatalf("degraded round entry wrong: %v", entry)
	}
}

func TestStartTimer_ReturnsElapsed(t *testing.T) {
	logger, _ := capture()

	stop := logger.StartTimer("round")
	if d := stop(); d < 0 {
		t.Fatalf("expected non-negative duration, got %v", d)
	}
}

package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newJSONLogger(level, name string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(&Config{Level: level, Format: FormatJSON}, name, buf)
	return l, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Name() != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", l.Name())
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	l, _ := newJSONLogger("invalid-level", "test")
	if l.Level() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", l.Level())
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSONLogger("warn", "app")
	l.Info("hidden")
	l.Warn("shown")

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["message"] != "shown" {
		t.Errorf("unexpected message %v", lines[0]["message"])
	}
	if lines[0][FieldApp] != "app" {
		t.Errorf("expected app field, got %v", lines[0][FieldApp])
	}
}

func TestWithLevel(t *testing.T) {
	l, buf := newJSONLogger("error", "app")
	l.WithLevel("debug").Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("expected debug output after WithLevel, got %q", buf.String())
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := newJSONLogger("debug", "app")
	l.WithComponent("cache").Info("started", Fields(FieldState, "started"))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0][FieldComponent] != "cache" {
		t.Errorf("expected component=cache, got %v", lines[0][FieldComponent])
	}
	if lines[0][FieldState] != "started" {
		t.Errorf("expected state=started, got %v", lines[0][FieldState])
	}
}

func TestWithServiceAndError(t *testing.T) {
	l, buf := newJSONLogger("debug", "")
	l.WithService("db").WithError(fmt.Errorf("boom")).Error("cleanup failed")

	lines := decodeLines(t, buf)
	if lines[0][FieldService] != "db" {
		t.Errorf("expected service=db, got %v", lines[0][FieldService])
	}
	if lines[0]["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", lines[0]["error"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	// Must not panic.
	l.Info("ignored")
	l.WithComponent("x").Error("ignored")
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l.Level() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", l.Level())
	}
}

func TestConsoleFormatNoColor(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "svc", buf)
	l.Info("hello")
	if !strings.Contains(buf.String(), "[INF]") {
		t.Errorf("expected plain level tag, got %q", buf.String())
	}
}

func TestGlobalLogger(t *testing.T) {
	defer SetGlobalLogger(nil)

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}

	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	Init(&Config{Level: "debug", Format: FormatJSON, ServiceName: "init"})
	if GetGlobalLogger().Name() != "init" {
		t.Errorf("expected global logger named 'init', got %q", GetGlobalLogger().Name())
	}
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	base, buf := newJSONLogger("debug", "app")
	r := NewRegistry(base)

	custom := Nop()
	r.Register("quiet", custom)
	if r.Get("quiet") != custom {
		t.Error("expected Get to return the registered logger")
	}

	c1 := r.Component("cache")
	if r.Component("cache") != c1 {
		t.Error("expected component logger to be memoized")
	}
	c1.Info("hello")
	r.Service("db").Info("world")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0][FieldComponent] != "cache" || lines[1][FieldService] != "db" {
		t.Errorf("unexpected tagging: %v", lines)
	}
	if r.Base() != base {
		t.Error("expected Base to return the base logger")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "save", "id", 42}, map[string]interface{}{"op": "save", "id": 42}},
		{"odd number of args", []interface{}{"op", "save", "trailing"}, map[string]interface{}{"op": "save"}},
		{"empty", []interface{}{}, map[string]interface{}{}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Fatalf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndTransitionFields(t *testing.T) {
	fields := ErrorFields("start", fmt.Errorf("something broke"))
	if fields[FieldOperation] != "start" || fields[FieldError] != "something broke" {
		t.Errorf("unexpected error fields %v", fields)
	}

	tf := TransitionFields("created", "initializing")
	if tf[FieldFromState] != "created" || tf[FieldToState] != "initializing" {
		t.Errorf("unexpected transition fields %v", tf)
	}
}

func TestDurationFieldsAndMerge(t *testing.T) {
	fields := DurationFields("shutdown", 150*time.Millisecond)
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}

	merged := MergeWithError(nil, fmt.Errorf("test error"))
	if merged[FieldError] != "test error" {
		t.Errorf("expected error field from nil map, got %v", merged[FieldError])
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"debug", "debug", true},
		{" INFO ", "info", true},
		{"WARNING", "warn", true},
		{"warn", "warn", true},
		{"CRITICAL", "fatal", true},
		{"NOTSET", "trace", true},
		{"disabled", "disabled", true},
		{"0", "trace", true},
		{"10", "debug", true},
		{"15", "info", true},
		{"20", "info", true},
		{"30", "warn", true},
		{"40", "error", true},
		{"50", "fatal", true},
		{"loud", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeLevel(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("NormalizeLevel(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

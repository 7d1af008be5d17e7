// ABOUTME: Tests for logger construction
// ABOUTME: Verifies level parsing and output filtering

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("hidden")
	l.Info("shown", "slot", "vehicle_fuel_options")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "vehicle_fuel_options") {
		t.Errorf("expected info message with keyvals, got %q", out)
	}
	if !strings.Contains(out, "carlog") {
		t.Errorf("expected prefix in output, got %q", out)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_DefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("quiet")
	l.Warn("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

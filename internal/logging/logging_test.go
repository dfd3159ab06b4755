package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedLogger(level Level, buf *bytes.Buffer) *Logger {
	l := New(level)
	l.SetOutput(buf)
	l.sink.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 6e6, time.UTC) }
	return l
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(LevelDebug, &buf)

	l.With("catalog").Error("load %s: %v", "stars.cat", "bad magic")
	want := "03:04:05.006 [ERROR] catalog: load stars.cat: bad magic\n"
	if buf.String() != want {
		t.Errorf("line = %q, want %q", buf.String(), want)
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(LevelWarn, &buf)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[WARN] w") || !strings.Contains(lines[1], "[ERROR] e") {
		t.Errorf("lines = %q", lines)
	}
	if l.Enabled(LevelInfo) || !l.Enabled(LevelError) {
		t.Error("Enabled disagrees with the level")
	}
}

func TestLogger_WithSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := fixedLogger(LevelInfo, &buf)
	child := root.With("state").With("tier")

	root.SetLevel(LevelError)
	child.Info("hidden")
	child.Error("shown")

	if got := buf.String(); !strings.Contains(got, "state.tier: shown") || strings.Contains(got, "hidden") {
		t.Errorf("output = %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"Warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
		if tt.wantErr && !errors.Is(err, ErrLevel) {
			t.Errorf("ParseLevel(%q) err = %v, want ErrLevel", tt.in, err)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(LevelError) {
		t.Error("Discard logger enabled for errors")
	}
	l.Error("nothing")
}

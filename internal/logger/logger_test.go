package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("decoded", "file", "w.npy")

	out := buf.String()
	if !strings.Contains(out, `"msg":"decoded"`) {
		t.Fatalf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"file":"w.npy"`) {
		t.Fatalf("expected file attr in output, got: %s", out)
	}
	if !strings.Contains(out, `"level":"INFO"`) {
		t.Fatalf("expected level INFO in output, got: %s", out)
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn message, got: %s", buf.String())
	}
}

func TestSetupFormats(t *testing.T) {
	t.Parallel()
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"text", "msg=hello"},
		{"pretty", "msg=hello"}, // not a terminal, falls back to text
		{"", "msg=hello"},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		Setup(&buf, "info", tc.format).Info("hello")
		if !strings.Contains(buf.String(), tc.want) {
			t.Errorf("format %q: expected %q in %q", tc.format, tc.want, buf.String())
		}
	}
}

func TestSetupLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Setup(&buf, "debug", "text")
	log.Debug("details")
	if !strings.Contains(buf.String(), "details") {
		t.Fatalf("expected debug output, got: %s", buf.String())
	}
}

func TestIsTerminalRegularFile(t *testing.T) {
	t.Parallel()
	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()
	if IsTerminal(f) {
		t.Fatal("regular file reported as terminal")
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Text(&buf, slog.LevelInfo)
	ctx := WithContext(context.Background(), log)
	if FromContext(ctx) != log {
		t.Fatal("expected logger from context")
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("expected default logger")
	}
}

func TestWithAndGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo).With("run", "r1").WithGroup("array")
	log.Info("decoded", "rows", 2)
	out := buf.String()
	if !strings.Contains(out, `"run":"r1"`) || !strings.Contains(out, `"array":{"rows":2}`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPrettyHandler(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelInfo)
	log.Info("decoded", "file", "w.npy", "note", "two words")

	out := buf.String()
	for _, want := range []string{"INF", "decoded", "file=w.npy", `note="two words"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)
	slog.New(h.WithGroup("a").WithGroup("b")).Info("nested", "key", "val")
	if !strings.Contains(buf.String(), "a.b.key=val") {
		t.Fatalf("expected 'a.b.key=val', got: %s", buf.String())
	}

	if h.WithGroup("") != slog.Handler(h) {
		t.Fatal("empty group should return the same handler")
	}
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil).WithAttrs([]slog.Attr{slog.String("run", "abc")})
	slog.New(h).Info("x", slog.Group("shape", "rows", 2, "cols", 3))
	out := buf.String()
	for _, want := range []string{"run=abc", "shape.rows=2", "shape.cols=3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestPrettyHighlightsErrors(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Error("failed", "err", errors.New("boom"))
	if !strings.Contains(buf.String(), colorRed+"err=boom") {
		t.Fatalf("expected red error attr, got: %q", buf.String())
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  bool
	}{
		{"simple", false},
		{"has space", true},
		{"has\ttab", true},
		{`has"quote`, true},
		{"k=v", true},
		{"", false},
	}
	for _, tc := range tests {
		if got := needsQuoting(tc.input); got != tc.want {
			t.Errorf("needsQuoting(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

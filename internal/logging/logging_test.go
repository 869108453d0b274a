package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel)

	l.Info("hidden")
	l.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") || !strings.Contains(out, "termgrid") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "termgrid.log")
	l, closer, err := OpenFile(path, log.DebugLevel)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	l.Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "hello") {
		t.Errorf("expected log line in file, got %q, %v", data, err)
	}

	l, closer, err = OpenFile("", log.DebugLevel)
	if err != nil || l == nil || closer.Close() != nil {
		t.Errorf("expected a discarding logger, got %v", err)
	}
}

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: "debug", Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Logger.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"message":"hello"`) {
		t.Fatalf("log line missing from output: %q", buf.String())
	}
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spoor.log")
	if err := Init(Config{Level: "debug", Format: "json", File: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Logger.Info().Msg("file sink")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "file sink") {
		t.Fatalf("log line missing from file: %q", string(data))
	}
}

func TestInitRejectsUnwritableFile(t *testing.T) {
	err := Init(Config{Level: "info", Format: "json", File: filepath.Join(t.TempDir(), "missing", "spoor.log")})
	if err == nil {
		t.Fatal("expected error for unwritable log file path")
	}
}

func TestScopedLoggers(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: "debug", Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	logger := WithNode(WithHunt(Component("canvas"), "hunt-1"), "node-9")
	logger.Debug().Msg("scoped")

	line := buf.String()
	for _, want := range []string{`"component":"canvas"`, `"hunt_id":"hunt-1"`, `"node_id":"node-9"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %q", want, line)
		}
	}
}

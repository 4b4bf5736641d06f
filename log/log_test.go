package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerTagsModule(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	logger := NewLogger("codec")
	logger.WithField("block", 3).Warn("corrected")
	out := buf.String()
	if !strings.Contains(out, "name=codec") || !strings.Contains(out, "block=3") {
		t.Errorf("missing fields in %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	defer SetLevel("warn")

	if err := SetLevel("error"); err != nil {
		t.Fatal(err)
	}
	NewLogger("test").Warn("hidden")
	if buf.Len() != 0 {
		t.Errorf("warn passed an error level: %q", buf.String())
	}
	if err := SetLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestAddTracer(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	path := filepath.Join(t.TempDir(), "relay")
	AddTracer(path)
	defer func() {
		base.ReplaceHooks(make(logrus.LevelHooks))
	}()

	NewLogger("tracer").Warn("dropped")
	data, err := os.ReadFile(path + ".warn")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\"msg\":\"dropped\"") {
		t.Errorf("unexpected warn file content %q", data)
	}
}

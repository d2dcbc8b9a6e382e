package logger

import (
	"bytes"
	"os"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug_GatedOnVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	SetVerbose(false)
	Debug("hidden %s", "message")
	if buf.Len() != 0 {
		t.Errorf("expected no output when verbose disabled, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown %s", "message")
	if got := buf.String(); got != "[DEBUG] shown message\n" {
		t.Errorf("unexpected debug output: %q", got)
	}
}

func TestWarnAndError_AlwaysPrint(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("bad sidecar: %s", "x.json")
	Error("boom")

	got := buf.String()
	if got != "[WARN] bad sidecar: x.json\n[ERROR] boom\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestSection_GatedOnVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Search Execution")
	if got := buf.String(); got != "\n=== Search Execution ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

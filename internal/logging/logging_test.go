package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitTruncatesAndWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Debug.log")
	if err := os.WriteFile(path, []byte("stale content from last run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Init(path, "debug"); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	Debugf("probe at (%d,%d)", 157, 126)
	Warnf("unknown token %q", 'x')
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if strings.Contains(out, "stale content") {
		t.Error("log file should be truncated on Init")
	}
	if !strings.Contains(out, "probe at (157,126)") {
		t.Errorf("debug message missing from log:\n%s", out)
	}
	if !strings.Contains(out, "unknown token") {
		t.Errorf("warn message missing from log:\n%s", out)
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	if err := Init("", "loud"); err == nil {
		t.Error("Init() should reject an unknown level")
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Debug.log")
	if err := Init(path, "warn"); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	Debugf("hidden detail")
	Infof("hidden info")
	Errorf("visible error")
	Close()

	data, _ := os.ReadFile(path)
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "visible error") {
		t.Errorf("error message missing:\n%s", out)
	}
}

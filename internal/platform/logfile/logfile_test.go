package logfile

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupEmptyPathIsNoop(t *testing.T) {
	previous := log.Writer()
	restore, err := Setup("  ")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if log.Writer() != previous {
		t.Fatal("expected log output to stay unchanged")
	}
	if err := restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
}

func TestSetupWritesToFileAndPreviousOutput(t *testing.T) {
	var console bytes.Buffer
	previous := log.Writer()
	log.SetOutput(&console)
	t.Cleanup(func() { log.SetOutput(previous) })

	path := filepath.Join(t.TempDir(), "logs", "riskodds.log")
	restore, err := Setup(path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	log.Print("exported 870 campaign states")
	if err := restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "exported 870 campaign states") {
		t.Fatalf("log file = %q", data)
	}
	if !strings.Contains(console.String(), "exported 870 campaign states") {
		t.Fatalf("console = %q", console.String())
	}
	if log.Writer() != &console {
		t.Fatal("expected restore to reinstate previous output")
	}
}

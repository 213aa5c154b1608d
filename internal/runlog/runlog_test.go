package runlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPrintfAppendsAndMirrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "avatar-generation.log")
	var out bytes.Buffer

	log, err := New(path, &out)
	if err != nil {
		t.Fatalf("new run log: %v", err)
	}
	log.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	log.Printf("[%d/%d] %s", 1, 2, "Plato")
	log.Printf("saved %s\n", "plato.png")
	if err := log.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2: %q", len(lines), lines)
	}
	want := "[2025-03-01T12:00:00Z] [" + log.RunID() + "] [1/2] Plato"
	if lines[0] != want {
		t.Fatalf("line 0 = %q, want %q", lines[0], want)
	}

	if got := out.String(); got != "[1/2] Plato\nsaved plato.png\n" {
		t.Fatalf("mirrored output = %q", got)
	}
}

func TestRunsShareOneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	for i := 0; i < 2; i++ {
		log, err := New(path, nil)
		if err != nil {
			t.Fatalf("new run log: %v", err)
		}
		log.Printf("run %d", i)
		_ = log.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("expected 2 lines across runs, got %d", n)
	}
}

func TestNilLogIsSafe(t *testing.T) {
	var log *Log
	log.Printf("ignored")
	if log.Path() != "" || log.RunID() != "" {
		t.Fatal("nil log should report empty values")
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close nil log: %v", err)
	}
}

func TestNewRunIDIsShort(t *testing.T) {
	id := NewRunID()
	if len(id) != 8 {
		t.Fatalf("run id %q should be 8 characters", id)
	}
	if id == NewRunID() {
		t.Fatal("run ids should differ")
	}
}

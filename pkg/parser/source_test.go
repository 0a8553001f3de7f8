package parser

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSource_Next(t *testing.T) {
	dir := t.TempDir()
	content := `[10:00:00] <alice> hello
not a log line
[10:01:00] <bob> hi
[10:02:00] * alice waves
`
	path := writeLog(t, dir, "2025-06-26.log", content)

	src, err := NewFileSource(path, testDate)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	ctx := context.Background()
	var events []Event
	for {
		ev, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		events = append(events, ev)
	}

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Actor != "alice" || events[0].Kind != KindMessage {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[2].Kind != KindAction {
		t.Errorf("events[2].Kind = %v, want action", events[2].Kind)
	}

	// Unrecognized lines count toward the scanned total.
	if got := src.Scanned(); got != 4 {
		t.Errorf("Scanned() = %d, want 4", got)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "absent.log"), testDate); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSource_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "2025-06-26.log", "[10:00:00] <alice> hello\n")

	src, err := NewFileSource(path, testDate)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); err != context.Canceled {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "2025-06-26.log", "")
	writeLog(t, dir, "2025-06-25.log", "")
	writeLog(t, dir, "notes.txt", "")
	writeLog(t, dir, "README.log", "")
	if err := os.Mkdir(filepath.Join(dir, "2025-01-01.log"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "2025-06-25.log" {
		t.Errorf("files[0] = %s, want 2025-06-25.log first", files[0].Path)
	}
	want := time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)
	if !files[0].Date.Equal(want) {
		t.Errorf("files[0].Date = %v, want %v", files[0].Date, want)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wscheck/internal/config"
)

func TestCheckableName(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.go", true},
		{"notes.txt", true},
		{".main.go.swp", false},
		{".main.go.swo", false},
		{"main.go~", false},
		{"#main.go#", false},
	}
	for _, tt := range tests {
		if got := checkableName(tt.path); got != tt.want {
			t.Errorf("checkableName(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// runWatcher starts Run and returns a channel of batches.
func runWatcher(t *testing.T, w *Watcher) <-chan []string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 8)
	errc := make(chan error, 1)
	go func() {
		errc <- w.Run(ctx, func(paths []string) { batches <- paths })
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Run: %v", err)
		}
		_ = w.Close()
	})
	return batches
}

func waitBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case b := <-batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change batch")
		return nil
	}
}

func TestRunBatchesWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, Options{Interval: 50 * time.Millisecond, Config: config.Default(dir)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	batches := runWatcher(t, w)

	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	for _, p := range []string{b, a} {
		if err := os.WriteFile(p, []byte("x \n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got := waitBatch(t, batches)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("unexpected batch %v", got)
	}
}

func TestRunWatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, Options{Interval: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	batches := runWatcher(t, w)

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// give the watcher a moment to register the new directory
	time.Sleep(200 * time.Millisecond)
	p := filepath.Join(sub, "c.txt")
	if err := os.WriteFile(p, []byte("c\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := waitBatch(t, batches)
	if len(got) != 1 || got[0] != p {
		t.Fatalf("unexpected batch %v", got)
	}
}

func TestRunSkipsExcludedFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.Exclude = append(cfg.Exclude, "**/*.log")
	w, err := New(dir, Options{Interval: 50 * time.Millisecond, Config: cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	batches := runWatcher(t, w)

	if err := os.WriteFile(filepath.Join(dir, "skip.log"), []byte("x \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	keep := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(keep, []byte("x \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := waitBatch(t, batches)
	if len(got) != 1 || got[0] != keep {
		t.Fatalf("unexpected batch %v", got)
	}
}

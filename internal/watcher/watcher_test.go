package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_RescanOnMatchingFile(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	rescans := 0
	w := NewWatcher(dir, []string{".txt"}, func() {
		mu.Lock()
		rescans++
		mu.Unlock()
	}, WithDebounce(100*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "cv.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, 3*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return rescans >= 1
	})
	if !ok {
		t.Fatal("expected a rescan after file creation")
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	rescans := 0
	w := NewWatcher(dir, []string{".txt"}, func() {
		mu.Lock()
		rescans++
		mu.Unlock()
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(400 * time.Millisecond)
	mu.Lock()
	got := rescans
	mu.Unlock()
	if got != 0 {
		t.Errorf("rescans = %d, want 0 for non-matching extension", got)
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	rescans := 0
	w := NewWatcher(dir, []string{".txt"}, func() {
		mu.Lock()
		rescans++
		mu.Unlock()
	}, WithDebounce(300*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Burst of writes well inside the settle window.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "cv.txt"), []byte("rev"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(30 * time.Millisecond)
	}

	ok := waitFor(t, 3*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return rescans >= 1
	})
	if !ok {
		t.Fatal("expected a rescan after burst settled")
	}
	// Give any stray timers a chance to fire, then check the burst collapsed.
	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	got := rescans
	mu.Unlock()
	if got != 1 {
		t.Errorf("rescans = %d, want 1 for a single burst", got)
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "nope"), nil, func() {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error for missing directory")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, nil, func() {})
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

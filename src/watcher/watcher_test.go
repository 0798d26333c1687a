package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, source string) *Watcher {
	t.Helper()
	w, err := NewWatcher(source, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	w.Debounce = 100 * time.Millisecond
	t.Cleanup(func() { w.Stop() })
	return w
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "logo.png")
	if err := os.WriteFile(source, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	w := newTestWatcher(t, source)
	if err := w.Start(nil); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	if err := os.WriteFile(source, []byte("v2"), 0644); err != nil {
		t.Fatalf("Failed to modify source: %v", err)
	}

	// Wait for event (could be Create or Write depending on OS)
	select {
	case event := <-w.Events():
		if event.Type != EventCreated && event.Type != EventModified {
			t.Errorf("Expected EventCreated or EventModified, got %v", event.Type)
		}
		if filepath.Clean(event.FilePath) != w.source {
			t.Errorf("Expected filepath %s, got %s", w.source, event.FilePath)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for event")
	}
}

func TestWatcherCallbackConsumesEvents(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "logo.png")
	if err := os.WriteFile(source, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	w := newTestWatcher(t, source)
	w.Debounce = 20 * time.Millisecond

	changed := make(chan Event, 10)
	if err := w.Start(func(ev Event) { changed <- ev }); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	// More separated changes than the channel buffer holds
	rounds := cap(w.events) + 5
	for i := 0; i < rounds; i++ {
		if err := os.WriteFile(source, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("Failed to write source: %v", err)
		}
		select {
		case ev := <-changed:
			if filepath.Clean(ev.FilePath) != w.source {
				t.Fatalf("Expected filepath %s, got %s", w.source, ev.FilePath)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Timeout waiting for change callback %d", i)
		}
		// Let trailing events of this write settle before the next one
		time.Sleep(3 * w.Debounce)
		for len(changed) > 0 {
			<-changed
		}
	}

	if n := len(w.Events()); n != 0 {
		t.Errorf("Expected no queued events with a callback, got %d", n)
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "logo.png")
	if err := os.WriteFile(source, []byte("v0"), 0644); err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	w := newTestWatcher(t, source)
	w.Debounce = 300 * time.Millisecond

	var calls atomic.Int32
	if err := w.Start(func(Event) { calls.Add(1) }); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(source, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("Failed to write source: %v", err)
		}
	}

	time.Sleep(1500 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected 1 callback for a burst of writes, got %d", got)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "logo.png")
	if err := os.WriteFile(source, []byte("v1"), 0644); err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	w := newTestWatcher(t, source)
	if err := w.Start(nil); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	// Sibling file in the watched folder
	if err := os.WriteFile(filepath.Join(tmpDir, "other.png"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create sibling: %v", err)
	}

	// Should NOT receive event
	select {
	case event := <-w.Events():
		t.Errorf("Should not receive event for other file, got: %v", event)
	case <-time.After(1 * time.Second):
		// Expected - no event received
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	source := filepath.Join(t.TempDir(), "logo.png")
	w, err := NewWatcher(source, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("First Stop failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Second Stop failed: %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Expected events channel to be closed")
	}
}

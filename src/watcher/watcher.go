package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the source must be quiet before a rebuild
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors the source image and triggers regeneration when it changes
type Watcher struct {
	source   string
	watcher  *fsnotify.Watcher
	events   chan Event
	logger   *slog.Logger
	Debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	runMu   sync.Mutex // serializes onChange callbacks
}

// Event represents a change to the source image
type Event struct {
	Type     EventType
	FilePath string
}

// EventType represents the type of file event
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	}
	return "unknown"
}

// NewWatcher creates a new watcher for the given source image
func NewWatcher(source string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		source:   abs,
		watcher:  fsWatcher,
		events:   make(chan Event, 100),
		logger:   logger,
		Debounce: DefaultDebounce,
	}, nil
}

// Start begins monitoring. The directory is watched rather than the file so
// that editors replacing the file via rename are still seen. onChange runs
// once per burst of writes, never concurrently with itself. When onChange is
// set it is the only consumer: nothing is sent on Events.
func (w *Watcher) Start(onChange func(Event)) error {
	dir := filepath.Dir(w.source)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}
	w.logger.Info("👀 Watching source image", "path", w.source)

	go w.processEvents(onChange)
	return nil
}

// processEvents handles fsnotify events for the source file
func (w *Watcher) processEvents(onChange func(Event)) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.source {
				continue
			}
			w.handleEvent(event, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleEvent maps an fsnotify event and schedules the debounced callback
func (w *Watcher) handleEvent(event fsnotify.Event, onChange func(Event)) {
	var eventType EventType

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		eventType = EventCreated
	case event.Op&fsnotify.Write == fsnotify.Write:
		eventType = EventModified
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		eventType = EventDeleted
	default:
		return // Ignore chmod
	}
	w.logger.Debug("Source changed", "event", eventType.String(), "path", event.Name)

	ev := Event{Type: eventType, FilePath: event.Name}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	if eventType == EventDeleted {
		if onChange == nil {
			w.emit(ev)
		} else {
			w.logger.Warn("Source image removed, waiting for it to reappear", "path", ev.FilePath)
		}
		return
	}

	// Debounce: restart the timer on every write
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		if onChange == nil {
			w.emit(ev)
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		w.runMu.Lock()
		defer w.runMu.Unlock()
		onChange(ev)
	})
}

// emit sends without blocking; w.mu must be held
func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	default:
		w.logger.Warn("Dropping watcher event, channel full", "path", ev.FilePath)
	}
}

// Events returns the event channel
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.events)
	w.mu.Unlock()

	return w.watcher.Close()
}

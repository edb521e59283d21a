// Package watcher handles file system watching for the daemon.
package watcher

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wordfall-io/wordfall/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventManifestChanged EventType = iota
	EventSettingsChanged
)

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the settings file and the release manifest so the daemon
// can hot-reload both without a restart.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	eventsChan   chan Event
	done         chan struct{}
	mu           sync.RWMutex
	manifestPath string
	debounce     map[string]*time.Timer
	debounceMu   sync.Mutex
}

// New creates a new file system watcher.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}

	return w, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts the watcher.
func (w *Watcher) Start() error {
	// Watch the global dir for settings.yaml changes
	globalDir, err := config.GlobalDir()
	if err != nil {
		return err
	}
	if err := w.fsWatcher.Add(globalDir); err != nil {
		log.Printf("Warning: failed to watch global dir: %v", err)
	}

	// Start processing events
	go w.processEvents()

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fsWatcher.Close()
}

// WatchManifest adds the manifest file's directory to the watch set.
// Watching the directory rather than the file survives atomic
// write-tmp-then-rename publishes.
func (w *Watcher) WatchManifest(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.manifestPath = filepath.Clean(path)
	dir := filepath.Dir(w.manifestPath)
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}

	log.Printf("[watcher] Watching manifest: %s", w.manifestPath)
	return nil
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Accept write, create, and rename events. Rename matters: atomic
	// publishes (write tmp → rename to target) produce Rename events on
	// the target file.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	// Debounce events
	w.debounceEvent(event.Name, func() {
		w.processFileChange(event.Name)
	})
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	// Cancel existing timer
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	// Create new timer
	w.debounce[path] = time.AfterFunc(100*time.Millisecond, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// processFileChange handles a debounced file change.
func (w *Watcher) processFileChange(path string) {
	cleaned := filepath.Clean(path)

	w.mu.RLock()
	manifestPath := w.manifestPath
	w.mu.RUnlock()

	if manifestPath != "" && cleaned == manifestPath {
		log.Printf("[watcher] manifest changed: %s", cleaned)
		w.eventsChan <- Event{Type: EventManifestChanged, Path: cleaned}
		return
	}

	if filepath.Base(cleaned) == config.SettingsFileName {
		log.Printf("[watcher] settings changed: %s", cleaned)
		w.eventsChan <- Event{Type: EventSettingsChanged, Path: cleaned}
	}
}

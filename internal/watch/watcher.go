package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fpick/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Event reports that the content of the watched folder changed
type Event struct {
	Dir       string
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

const eventBuffer = 16

// Watcher follows a single folder, the one a picker currently displays.
// Watch retargets it; events from the previous folder are dropped.
type Watcher struct {
	dir       string
	events    chan Event
	stopChan  chan struct{}
	done      chan struct{}
	fsWatcher *fsnotify.Watcher
	logger    *log.Logger

	mutex   sync.RWMutex
	running bool
}

// New creates a new folder watcher using fsnotify
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		events:    make(chan Event, eventBuffer),
		fsWatcher: fsWatcher,
		logger:    log.LogWithFields(log.F("component", "watch")),
	}, nil
}

// Watch switches the watcher to dir
func (w *Watcher) Watch(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid directory %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.dir == abs {
		return nil
	}
	if w.dir != "" {
		if err := w.fsWatcher.Remove(w.dir); err != nil {
			w.logger.With(log.F("directory", w.dir)).WithError(err).Debug("remove watch")
		}
	}
	if err := w.fsWatcher.Add(abs); err != nil {
		w.dir = ""
		return fmt.Errorf("failed to add directory %s to watcher: %w", abs, err)
	}
	w.dir = abs
	w.logger.With(log.F("directory", abs)).Debug("Watching directory")
	return nil
}

// Dir returns the folder being watched, "" when none
func (w *Watcher) Dir() string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.dir
}

// Events returns the channel that delivers folder change events. It is
// closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins the file watching process using fsnotify
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.done != nil {
		return fmt.Errorf("watcher already stopped")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop(w.stopChan, w.done)
	w.logger.Debug("Watcher started.")
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// Attribute changes never alter a listing
			if event.Op == fsnotify.Chmod {
				continue
			}
			dir := filepath.Dir(event.Name)
			if dir != w.Dir() {
				continue
			}

			ev := Event{Dir: dir, Path: event.Name, Op: event.Op, Timestamp: time.Now()}
			select {
			case w.events <- ev:
			default:
				// A pending event already forces a re-list
				w.logger.With(log.F("file", event.Name)).Debug("Event channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts the watcher and closes the event channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	done := w.done
	w.mutex.Unlock()

	<-done
	if err := w.fsWatcher.Close(); err != nil {
		w.logger.WithError(err).Error("Error closing fsnotify watcher")
	}
	w.logger.Debug("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

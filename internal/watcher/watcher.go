package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"partnerplane/pkg/logging"
)

const subsystem = "Watcher"

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Config holds watcher configuration options.
type Config struct {
	// Path is the file to watch.
	Path string

	// Interval is the poll interval. It must be positive.
	Interval time.Duration

	// Debounce is how long to wait for further changes before emitting.
	Debounce time.Duration

	// DisableNotify turns off fsnotify and relies on polling alone.
	DisableNotify bool
}

// fileState is the part of a stat result used to detect modifications.
type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
}

// Watcher monitors a single file and emits a ChangeEvent when it changes.
//
// Changes are detected by fsnotify on the parent directory and by an
// mtime/size poll every Interval. Bursts of changes within the debounce
// window produce one event. The event channel holds at most one pending
// event; further changes are coalesced into it.
type Watcher struct {
	mu sync.Mutex

	path     string
	interval time.Duration
	debounce time.Duration
	notify   bool

	fsWatcher *fsnotify.Watcher
	events    chan ChangeEvent
	stopCh    chan struct{}
	done      chan struct{}
	running   bool
	stopped   bool

	last fileState
}

// New creates a watcher for cfg.Path. It does not start watching.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watcher path cannot be empty")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("watcher interval must be positive")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	return &Watcher{
		path:     filepath.Clean(cfg.Path),
		interval: cfg.Interval,
		debounce: cfg.Debounce,
		notify:   !cfg.DisableNotify,
		events:   make(chan ChangeEvent, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Interval returns the poll interval.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Start begins watching and returns the event channel. The channel is
// closed when the watcher stops, either through Stop or ctx cancellation.
// A watcher cannot be restarted once stopped.
func (w *Watcher) Start(ctx context.Context) (<-chan ChangeEvent, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil, errors.New("watcher already stopped")
	}
	if w.running {
		return w.events, nil
	}

	w.last = statFile(w.path)

	if w.notify {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			logging.Warn(subsystem, "fsnotify unavailable, polling %s only: %v", w.path, err)
		} else if err := fsw.Add(filepath.Dir(w.path)); err != nil {
			logging.Warn(subsystem, "Failed to watch directory of %s, polling only: %v", w.path, err)
			fsw.Close()
		} else {
			w.fsWatcher = fsw
		}
	}

	w.running = true
	go w.loop(ctx)

	logging.Info(subsystem, "Watching %s (interval %s)", w.path, w.interval)
	return w.events, nil
}

// Stop terminates the watcher and waits for its loop to exit. No event is
// delivered after Stop returns. Stop is idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	running := w.running
	close(w.stopCh)
	w.mu.Unlock()

	if !running {
		close(w.events)
		return nil
	}

	<-w.done
	logging.Debug(subsystem, "Stopped watching %s", w.path)
	return nil
}

// loop multiplexes fsnotify events, poll ticks and the debounce timer.
func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)

	var (
		fsEvents <-chan fsnotify.Event
		fsErrors <-chan error
	)
	if w.fsWatcher != nil {
		fsEvents = w.fsWatcher.Events
		fsErrors = w.fsWatcher.Errors
		defer func() {
			if err := w.fsWatcher.Close(); err != nil {
				logging.Error(subsystem, err, "Error closing fsnotify watcher")
			}
		}()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending Source
	)
	arm := func(src Source) {
		if pending == "" {
			pending = src
		}
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		}
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if w.isRelevantEvent(event) {
				arm(SourceNotify)
			}

		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			logging.Error(subsystem, err, "Filesystem watcher error")

		case <-ticker.C:
			if statFile(w.path) != w.last {
				arm(SourcePoll)
			}

		case <-timerC:
			timerC = nil
			src := pending
			pending = ""
			w.emit(src)
		}
	}
}

// emit records the current file state and offers an event. If an event is
// already pending in the channel the new one is dropped; the consumer will
// read the file's latest content when it handles the pending one.
func (w *Watcher) emit(src Source) {
	state := statFile(w.path)
	if state == w.last && src == SourcePoll {
		return
	}
	w.last = state

	op := OperationModified
	if !state.exists {
		op = OperationRemoved
	}

	event := ChangeEvent{
		Path:      w.path,
		Operation: op,
		ModTime:   state.modTime,
		Timestamp: time.Now(),
		Source:    src,
	}

	select {
	case w.events <- event:
		logging.Debug(subsystem, "Emitted %s event for %s (%s)", op, w.path, src)
	default:
		logging.Debug(subsystem, "Change of %s coalesced into pending event", w.path)
	}
}

// isRelevantEvent checks whether an fsnotify event concerns the watched file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

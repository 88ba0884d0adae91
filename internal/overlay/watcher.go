package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/trackedit/internal/logger"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to
// settle before reloading.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads overlay files when they change on disk and delivers the
// new layers on Updates. It watches the parent directories so that files
// replaced by rename, as most editors save, are picked up too.
type Watcher struct {
	fs       *fsnotify.Watcher
	log      *logger.Logger
	debounce time.Duration

	mu      sync.Mutex
	targets map[string]Kind
	timers  map[string]*time.Timer

	updates   chan Layer
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a watcher for every non-empty path. Layers whose
// directory does not exist are logged and left unwatched.
func NewWatcher(paths Paths, debounce time.Duration, log *logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Nop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		log:      log,
		debounce: debounce,
		targets:  make(map[string]Kind),
		timers:   make(map[string]*time.Timer),
		updates:  make(chan Layer, len(Kinds)),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, kind := range Kinds {
		path := paths.Of(kind)
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		dir := filepath.Dir(abs)
		if _, err := os.Stat(dir); err != nil {
			log.WarnWithFields("overlay directory not watched", []logger.Field{logger.Path(dir), logger.Error(err)})
			continue
		}
		if !dirs[dir] {
			if err := fsw.Add(dir); err != nil {
				_ = fsw.Close()
				return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
		w.targets[abs] = kind
	}

	return w, nil
}

// Updates delivers reloaded layers. The channel is not closed; stop reading
// after Close.
func (w *Watcher) Updates() <-chan Layer { return w.updates }

// Done is closed by Close.
func (w *Watcher) Done() <-chan struct{} { return w.done }

// Watching returns the number of watched overlay files.
func (w *Watcher) Watching() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.targets)
}

// Start runs the event loop in its own goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.schedule(filepath.Clean(event.Name))
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

// schedule (re)arms the debounce timer of path if it is an overlay file.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	kind, ok := w.targets[path]
	if !ok {
		return
	}
	if t, exists := w.timers[path]; exists {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.reload(kind, path)
	})
}

func (w *Watcher) reload(kind Kind, path string) {
	layer := LoadLayer(kind, path, w.log)
	w.log.DebugWithFields("overlay reloaded", []logger.Field{
		logger.F("layer", kind), logger.Points(len(layer.Points)),
	})
	select {
	case w.updates <- layer:
	case <-w.done:
	}
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

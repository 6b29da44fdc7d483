package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// reloadQuiet suppresses duplicate reload notifications for a path that is
// being appended to in rapid bursts.
const reloadQuiet = 200 * time.Millisecond

// Watcher monitors loaded log files and emits a reload notification (the
// file path) whenever one changes on disk. A file renamed away — rotation —
// is polled for reappearance and re-watched.
type Watcher struct {
	fsw     *fsnotify.Watcher
	Reloads chan string
	paths   []string

	mu   sync.Mutex
	last map[string]time.Time
}

// New creates a Watcher for the given file paths or glob patterns.
// Patterns are expanded once at startup; recursive globs like
// /var/log/**/*.log are supported.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		Reloads: make(chan string, 64),
		last:    make(map[string]time.Time),
	}

	for _, pattern := range patterns {
		matches, err := expandGlob(pattern)
		if err != nil {
			log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				log.Printf("warning: cannot watch %s: %v", abs, err)
				continue
			}
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Paths returns the files currently being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// Start listens for file events until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Reloads)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&fsnotify.Write != 0, ev.Op&fsnotify.Create != 0:
				w.notify(ev.Name)
			case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
				// Rotated or deleted; poll for the path to come back.
				go w.reconnect(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// notify emits a reload for the path unless one fired within the quiet
// window. Slow consumers drop notifications rather than block the loop.
func (w *Watcher) notify(path string) {
	w.mu.Lock()
	now := time.Now()
	if now.Sub(w.last[path]) < reloadQuiet {
		w.mu.Unlock()
		return
	}
	w.last[path] = now
	w.mu.Unlock()

	select {
	case w.Reloads <- path:
	default:
	}
}

// reconnect polls for a rotated-away file to reappear (up to 5 retries),
// then re-watches it and triggers a reload.
func (w *Watcher) reconnect(path string) {
	for i := 0; i < 5; i++ {
		time.Sleep(1 * time.Second)
		if _, err := os.Stat(path); err == nil {
			if err := w.fsw.Add(path); err != nil {
				log.Printf("cannot re-watch %s: %v", path, err)
				return
			}
			log.Printf("re-watching rotated file: %s", path)
			w.notify(path)
			return
		}
	}
	log.Printf("gave up waiting for %s to reappear", path)
}

// expandGlob resolves a glob pattern to matching files. A plain path with
// no metacharacters passes through doublestar unchanged.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}

package modelio

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/voxtrace/voxtrace/internal/logger"
)

// Watcher watches a local model directory for CSV changes and
// debounces them into a single reload signal, so a scene rebuild
// doesn't retrigger for every file in a multi-file save.
type Watcher struct {
	fsw     *fsnotify.Watcher
	changed chan string
	debounce time.Duration
}

// NewWatcher starts watching dir for writes/creates/removes of
// "*.csv" files. Call Changed to receive debounced reload signals and
// Close to stop.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, changed: make(chan string, 1), debounce: debounce}
	go w.loop()
	return w, nil
}

// Changed fires, at most once per debounce window, with the path of
// a changed CSV file.
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var pending string

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".csv") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}

			pending = filepath.Clean(event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC(timer):
			select {
			case w.changed <- pending:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("model watcher error: %v", err)
		}
	}
}

// timerC returns t.C, or a nil channel (which blocks forever in a
// select) when t hasn't been started yet.
func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

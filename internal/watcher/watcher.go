// Package watcher clears the instance cache when a local definition file
// changes, automating the coarse invalidation callers otherwise trigger with
// a force reload.
package watcher

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/cecil-the-coder/llm-config-factory/pkg/cache"
	"github.com/cecil-the-coder/llm-config-factory/pkg/config"
	"github.com/cecil-the-coder/llm-config-factory/pkg/factory"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher observes one local definition directory. On any create, write,
// rename or remove of a definition file it clears the whole instance cache
// and resets the factory so the next request reloads the catalog.
type Watcher struct {
	dir      string
	cache    *cache.Cache
	fs       *fsnotify.Watcher
	log      *logrus.Logger
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period collapsed writes must respect before
// the cache clears.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger overrides the standard logger.
func WithLogger(log *logrus.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// New starts watching dir and invalidating c. Close releases the watch.
func New(dir string, c *cache.Cache, opts ...Option) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		cache:    c,
		fs:       fs,
		log:      logrus.StandardLogger(),
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run()
	w.log.WithField("dir", dir).Info("watching model definitions")
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, config.DefinitionExt) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.schedule(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("definition watcher error")
		}
	}
}

// schedule collapses a burst of events into one invalidation after the
// debounce window.
func (w *Watcher) schedule(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.log.WithFields(logrus.Fields{
			"file": event.Name,
			"op":   event.Op.String(),
		}).Info("definition change detected, clearing instance cache")
		w.cache.Clear()
		factory.Reset()
	})
}

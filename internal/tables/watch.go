package tables

import (
	"os"
	"time"
)

// Watcher polls the tables file's modification time and invalidates the
// loader's cache when it changes. Polling keeps the data boundary free of
// platform-specific notification APIs.
type Watcher struct {
	loader   *Loader
	interval time.Duration
	onReload func()

	stopCh    chan struct{}
	lastMTime time.Time
}

// NewWatcher creates a watcher over the loader's file. onReload may be nil.
func NewWatcher(loader *Loader, interval time.Duration, onReload func()) *Watcher {
	return &Watcher{
		loader:   loader,
		interval: interval,
		onReload: onReload,
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling in a goroutine.
func (w *Watcher) Start() {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		w.scan(true)
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

func (w *Watcher) scan(prime bool) {
	if w.loader.path == "" {
		return
	}
	fi, err := os.Stat(w.loader.path)
	if err != nil {
		return
	}
	mt := fi.ModTime()
	if w.lastMTime.IsZero() {
		w.lastMTime = mt
		return
	}
	if mt.After(w.lastMTime) {
		w.lastMTime = mt
		if !prime {
			w.loader.Invalidate()
			if w.onReload != nil {
				w.onReload()
			}
		}
	}
}

package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce is how long the file must stay quiet before a reload.
// Editors often produce several write events per save.
const reloadDebounce = 250 * time.Millisecond

// Loader loads a configuration file and hot-reloads it on change.
type Loader struct {
	path string
	log  *slog.Logger

	mu       sync.Mutex
	cfg      *Config
	onChange []func(*Config)

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewLoader creates a loader for the config file at path.
func NewLoader(path string, log *slog.Logger) *Loader {
	return &Loader{
		path: path,
		log:  log.With("component", "config"),
		done: make(chan struct{}),
	}
}

// Load reads and validates the configuration file.
func (l *Loader) Load() (*Config, error) {
	cfg, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Current returns the most recently loaded configuration.
func (l *Loader) Current() *Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// OnChange registers a callback invoked with each successfully reloaded
// configuration. Register callbacks before calling Watch.
func (l *Loader) OnChange(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts monitoring the config file for changes. A changed file is
// reloaded after a debounce interval; files that fail to parse or validate
// are logged and skipped, keeping the previous configuration active.
func (l *Loader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory, not the file: editors that replace the file on
	// save would otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(l.path), err)
	}
	l.watcher = watcher

	l.wg.Add(1)
	go l.watchLoop()
	return nil
}

func (l *Loader) watchLoop() {
	defer l.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-l.done:
			return
		case ev, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(l.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.log.Warn("config watcher error", "error", err)
		case <-timerC:
			l.reload()
		}
	}
}

func (l *Loader) reload() {
	cfg, err := Load(l.path)
	if err != nil {
		l.log.Warn("ignoring invalid config change", "error", err)
		return
	}

	l.mu.Lock()
	l.cfg = cfg
	callbacks := make([]func(*Config), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()

	l.log.Info("configuration reloaded", "path", l.path)
	for _, fn := range callbacks {
		fn(cfg)
	}
}

// Close stops watching. It is safe to call when Watch was never started.
func (l *Loader) Close() error {
	close(l.done)
	var err error
	if l.watcher != nil {
		err = l.watcher.Close()
	}
	l.wg.Wait()
	return err
}

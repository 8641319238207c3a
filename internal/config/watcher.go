package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a project config file whenever it is written.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	logger  logging.Logger
	onLoad  func(*ProjectConfig)
	mu      sync.RWMutex
	current *ProjectConfig
}

// NewWatcher loads path and watches its directory, so editors that replace
// the file on save are picked up too. onLoad may be nil.
func NewWatcher(path string, logger logging.Logger, onLoad func(*ProjectConfig)) (*Watcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		path:    path,
		fsw:     fsw,
		logger:  logger.With(logging.Field{Key: "component", Value: "config-watcher"}),
		onLoad:  onLoad,
		current: cfg,
	}, nil
}

// Current returns the last loaded config.
func (w *Watcher) Current() *ProjectConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, w.reload)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", logging.Field{Key: "error", Value: err.Error()})
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", logging.Field{Key: "path", Value: w.path}, logging.Field{Key: "error", Value: err.Error()})
		return
	}
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
	w.logger.Info("config reloaded", logging.Field{Key: "path", Value: w.path})
	if w.onLoad != nil {
		w.onLoad(cfg)
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

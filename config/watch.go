package config

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DEFAULT_DEBOUNCE groups the bursts of events editors emit on save.
const DEFAULT_DEBOUNCE = 120 * time.Millisecond

// Watcher reloads a config file when it changes.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Logger   *log.Logger
	// OnChange receives every valid reload. It runs on the watcher goroutine.
	OnChange func(Config)
}

// Watch runs a Watcher for path until ctx is done.
func Watch(ctx context.Context, path string, logger *log.Logger, onChange func(Config)) error {
	w := &Watcher{Path: path, Logger: logger, OnChange: onChange}
	return w.Run(ctx)
}

// Run watches the file's directory so atomic replacements are seen. Invalid
// files are logged and ignored.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DEFAULT_DEBOUNCE
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	path := filepath.Clean(w.Path)
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "err", err)
		case <-fire:
			fire = nil
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("ignoring invalid config", "path", path, "err", err)
				continue
			}
			logger.Info("config reloaded", "path", path)
			if w.OnChange != nil {
				w.OnChange(cfg)
			}
		}
	}
}

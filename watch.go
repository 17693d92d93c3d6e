package arbor

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads a config file whenever it changes on disk. Parsed
// configs are handed over on a channel; a Scene attached with SetConfigSource
// applies them from its own Update, never from the watcher goroutine.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan Config
	done    chan struct{}
	logger  *slog.Logger
}

// WatchConfig starts watching path. The directory is watched rather than the
// file so editors that replace the file on save are still seen.
func WatchConfig(path string, logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	cw := &ConfigWatcher{
		path:    filepath.Clean(path),
		watcher: w,
		updates: make(chan Config, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go cw.loop()
	return cw, nil
}

// Updates delivers each successfully reloaded config. Only the latest
// pending config is kept.
func (cw *ConfigWatcher) Updates() <-chan Config {
	return cw.updates
}

// Close stops the watcher.
func (cw *ConfigWatcher) Close() error {
	select {
	case <-cw.done:
		return nil
	default:
	}
	close(cw.done)
	return cw.watcher.Close()
}

func (cw *ConfigWatcher) loop() {
	for {
		select {
		case <-cw.done:
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cw.reload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("config watcher error", "path", cw.path, "err", err)
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		cw.logger.Warn("config reload failed", "path", cw.path, "err", err)
		return
	}
	// Replace a stale pending config with the new one.
	select {
	case <-cw.updates:
	default:
	}
	select {
	case cw.updates <- cfg:
	default:
	}
	cw.logger.Debug("config reloaded", "path", cw.path)
}

// SetConfigSource makes Update apply configs received on ch. Pass a
// ConfigWatcher's Updates channel, or nil to detach.
func (s *Scene) SetConfigSource(ch <-chan Config) {
	s.configSource = ch
}

// applyConfigUpdates drains the config source without blocking.
func (s *Scene) applyConfigUpdates() {
	if s.configSource == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-s.configSource:
			if !ok {
				s.configSource = nil
				return
			}
			if err := s.SetConfig(cfg); err != nil {
				s.logger.Warn("rejected config update", "err", err)
			}
		default:
			return
		}
	}
}

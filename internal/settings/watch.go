package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// watchDelay coalesces the burst of events editors produce on save.
var watchDelay = 250 * time.Millisecond

// Watch reloads config.toml whenever it changes and passes the result to fn.
// The directory is watched rather than the file so atomic renames by editors
// are seen. Watch blocks until ctx is cancelled.
func (m *Manager) Watch(ctx context.Context, log zerolog.Logger, fn func(*Config)) error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	debounced := debounce.New(watchDelay)
	reload := func() {
		config, err := m.Load()
		if err != nil {
			log.Warn().Err(err).Msg("reload settings")
			return
		}
		fn(config)
	}

	name := filepath.Base(m.configPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounced(reload)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("settings watcher")
		}
	}
}

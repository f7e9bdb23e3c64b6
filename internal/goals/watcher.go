package goals

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the provider whenever its goals file changes, until ctx is
// cancelled. Editors tend to emit bursts of write/rename events, so reloads
// are debounced. A provider without a file path is a no-op.
func Watch(ctx context.Context, p *Provider, logger *slog.Logger) error {
	if p.Path() == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: many editors replace the file on
	// save, which drops a direct file watch.
	dir := filepath.Dir(p.Path())
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("goals watcher: started", slog.String("path", p.Path()))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("goals watcher: stopped")
			return nil

		case <-reloadCh:
			if err := p.Reload(); err != nil {
				logger.Warn("goals watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("goals watcher: ranges reloaded", slog.String("path", p.Path()))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(p.Path()) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("goals watcher: error", slog.String("error", err.Error()))
		}
	}
}

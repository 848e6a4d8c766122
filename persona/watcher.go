package persona

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/hupe1980/panelmesh/logging"
)

// Watch reloads definition files under dir whenever they are written or
// created, so persona edits take effect without a restart. It starts exactly
// one goroutine, owned by the caller through ctx; canceling ctx closes the
// watcher and ends the goroutine. A reload failure (for example a file saved
// mid-edit) is logged and skipped, leaving the previous definitions active.
func (r *Registry) Watch(ctx context.Context, dir string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating persona watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching persona directory %s: %w", dir, err)
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if ext := filepath.Ext(event.Name); ext != ".yaml" && ext != ".yml" {
					continue
				}
				if err := r.LoadFile(event.Name); err != nil {
					logger.Warn("persona reload failed", "path", event.Name, "error", err)
					continue
				}
				logger.Info("persona definitions reloaded", "path", event.Name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("persona watcher error", "error", err)
			}
		}
	}()
	return nil
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/blockcraft/internal/history"
	"github.com/ariel-frischer/blockcraft/internal/workspace"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce collapses the bursts of events editors emit for one save.
const watchDebounce = 300 * time.Millisecond

// ignoredByWatch reports files blockcraft itself writes into the config
// directory.
func ignoredByWatch(path string) bool {
	name := filepath.Base(path)
	return name == history.FileName || strings.HasPrefix(name, workspace.TempPrefix)
}

// watchDir calls onChange after each burst of changes in dirs until ctx is
// done. Errors from onChange are logged and watching continues.
func watchDir(ctx context.Context, dirs []string, debounce time.Duration, logger *zap.Logger, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	logger.Info("watching for config changes", zap.Strings("dirs", dirs))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 || ignoredByWatch(event.Name) {
				continue
			}
			logger.Debug("config event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			if err := onChange(); err != nil {
				logger.Error("regeneration failed", zap.Error(err))
			}
		}
	}
}

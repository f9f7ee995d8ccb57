package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/compilations/pkg/types"
)

// Ensure FileStore can report external changes.
var _ types.Watcher = (*FileStore)(nil)

// Watch calls fn with a fresh Load result every time the store file is
// written, replaced, or removed, typically by another process sharing the
// data directory. It blocks until ctx is done and then returns nil.
//
// The directory is watched rather than the file because Save replaces the
// file by rename, which would drop a watch on the old inode.
func (s *FileStore) Watch(ctx context.Context, fn types.WatchFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			s.logger.Debug("store changed",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			fn(s.Load())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// relevant reports whether event changes the store file's contents.
func (s *FileStore) relevant(event fsnotify.Event) bool {
	if isTempFile(event.Name) {
		return false
	}
	if filepath.Clean(event.Name) != s.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove)
}

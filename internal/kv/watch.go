package kv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reports keys modified by another process until ctx is cancelled.
//
// The store assumes a single writer; Watch does not prevent a second writer from
// interleaving with the backup read-modify-write, it only makes such writes visible.
func (s *FileStore) Watch(ctx context.Context, onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
				continue
			}
			key, ok := keyFromName(filepath.Base(ev.Name))
			if !ok || key == ProbeKey {
				continue
			}
			if s.changedExternally(key) {
				onChange(key)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", werr)
		}
	}
}

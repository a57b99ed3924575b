package kv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// Watch observes the store file for replacements made by another writer
// (a second process, a sync tool, a hand edit). On each change the store
// reloads from disk and emits one Event per changed top-level key; writes
// made through this FileStore produce no events. The channel is closed
// when ctx is done.
func (s *FileStore) Watch(ctx context.Context) (<-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, storageErr("create watcher", err)
	}
	// Watch the directory: atomic writers replace the file, which would
	// silently drop a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, storageErr("watch store directory", err)
	}

	events := make(chan Event, s.buffer)
	s.setWatching(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer s.setWatching(false)
		defer watcher.Close()

		name := filepath.Base(s.path)
		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
					continue
				}

				changes, err := s.reload()
				if err != nil {
					// A non-atomic writer may be mid-write; the next event retries.
					s.logger.Warn("store reload failed", "path", s.path, "error", err)
					continue
				}
				for _, change := range changes {
					s.logger.Debug("store changed externally", "event", change.String())
					select {
					case events <- change:
					case <-ctx.Done():
						return nil
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("store watcher error", "path", s.path, "error", err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("store watcher stopped", "error", fmt.Errorf("watch %s: %w", s.path, err))
	}))

	return events, nil
}

func (s *FileStore) setWatching(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watching = active
}

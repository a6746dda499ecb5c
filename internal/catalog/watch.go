package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch rebuilds the catalog whenever the file at path is written or
// replaced, passing each new catalog to onReload. Catalogs already handed out
// are left untouched. Load and watcher errors go to onError; Watch itself only
// returns when ctx is done or the watcher cannot be set up.
func Watch(ctx context.Context, path string, onReload func(*Catalog), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer watcher.Close()

	// Editors and sync tools often replace the file instead of writing it in
	// place, so watch the directory and filter by name.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch catalog directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			c, err := LoadFile(target)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onReload(c)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

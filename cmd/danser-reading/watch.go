package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// editors tend to emit several writes per save
const watchDebounce = 200 * time.Millisecond

type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

// newFileWatcher watches the parent directory, so files replaced on save are still tracked.
func newFileWatcher(path string) (*fileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err = watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &fileWatcher{
		watcher: watcher,
		path:    absPath,
	}, nil
}

// run calls onChange after the file settles, until ctx is done.
func (w *fileWatcher) run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce = time.After(watchDebounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			log.Println("Watcher error:", err)
		case <-debounce:
			debounce = nil

			log.Println("Beatmap changed, recalculating...")

			onChange()
		}
	}
}

func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := newFileWatcher(path)
	if err != nil {
		return err
	}

	log.Println("Watching", path, "for changes...")

	return watcher.run(ctx, onChange)
}

package filterstore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// debounce collapses the burst of events editors produce on save.
const debounce = 250 * time.Millisecond

// Watch calls onChange with the path of any watched file that was written,
// created or renamed into place. Parent directories are watched rather than
// the files, so atomic replacement is seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, paths []string, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	wanted := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		clean := filepath.Clean(p)
		wanted[clean] = struct{}{}
		dirs[filepath.Dir(clean)] = struct{}{}
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			log.Warn().Err(err).Str("dir", d).Msg("cannot watch directory")
		}
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if _, ok := wanted[name]; !ok {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			pending[name] = struct{}{}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			for name := range pending {
				onChange(name)
			}
			clear(pending)
		}
	}
}

package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// SettingsWatcher reports changes to a single file.
type SettingsWatcher struct {
	path     string
	debounce time.Duration
	onChange func()
	onError  func(error)

	fsWatcher *fsnotify.Watcher
	cancel    context.CancelFunc
	done      chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// WatchSettings starts watching path. The directory is watched rather than
// the file so atomic replace-on-save is seen. onChange runs on its own
// goroutine after the debounce window.
func WatchSettings(path string, debounce time.Duration, onChange func(), onError func(error)) (*SettingsWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch settings: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onChange == nil {
		onChange = func() {}
	}
	if onError == nil {
		onError = func(error) {}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch settings: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch settings dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	watcher := &SettingsWatcher{
		path:      absPath,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		fsWatcher: fsWatcher,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go watcher.loop(ctx)
	return watcher, nil
}

// Stop ends the watch and waits for the event loop to exit.
func (watcher *SettingsWatcher) Stop() {
	watcher.cancel()
	<-watcher.done

	watcher.mu.Lock()
	if watcher.timer != nil {
		watcher.timer.Stop()
		watcher.timer = nil
	}
	watcher.mu.Unlock()
}

func (watcher *SettingsWatcher) loop(ctx context.Context) {
	defer close(watcher.done)
	defer watcher.fsWatcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != watcher.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			watcher.trigger()
		case err, ok := <-watcher.fsWatcher.Errors:
			if !ok {
				return
			}
			watcher.onError(err)
		}
	}
}

func (watcher *SettingsWatcher) trigger() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.timer != nil {
		watcher.timer.Stop()
	}
	watcher.timer = time.AfterFunc(watcher.debounce, watcher.onChange)
}

package platform

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAwayUnsupported indicates inactivity detection is not available on this system.
var ErrAwayUnsupported = errors.New("inactivity detection unsupported")

// AwayProvider returns the duration since last user input.
type AwayProvider interface {
	IdleDuration() (time.Duration, error)
}

// AwayProviderFunc adapts a function to AwayProvider.
type AwayProviderFunc func() (time.Duration, error)

// IdleDuration calls f.
func (f AwayProviderFunc) IdleDuration() (time.Duration, error) {
	return f()
}

// NewAwayProvider returns a platform-specific inactivity provider.
func NewAwayProvider() AwayProvider {
	return newAwayProvider()
}

// AwayCallbacks receive transitions between present and away.
type AwayCallbacks struct {
	OnAway  func()
	OnBack  func()
	OnError func(error)
}

// AwayWatcher polls an AwayProvider and reports when the user has been
// inactive for longer than the threshold, and when they return.
type AwayWatcher struct {
	provider  AwayProvider
	threshold time.Duration
	interval  time.Duration
	callbacks AwayCallbacks

	mu          sync.Mutex
	away        bool
	unsupported bool
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewAwayWatcher creates a watcher. It does nothing until Start.
func NewAwayWatcher(provider AwayProvider, threshold, interval time.Duration, callbacks AwayCallbacks) *AwayWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &AwayWatcher{
		provider:  provider,
		threshold: threshold,
		interval:  interval,
		callbacks: callbacks,
	}
}

// Start launches the polling loop. Calling Start twice is a no-op.
func (watcher *AwayWatcher) Start() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	watcher.cancel = cancel
	watcher.done = make(chan struct{})
	go watcher.run(ctx, watcher.done)
}

// Stop ends polling. A watcher that saw the user away reports them back so
// callers never stay suspended.
func (watcher *AwayWatcher) Stop() {
	watcher.mu.Lock()
	cancel := watcher.cancel
	done := watcher.done
	watcher.cancel = nil
	watcher.done = nil
	watcher.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	// Read only after the loop exits so an in-flight Check is accounted for.
	watcher.mu.Lock()
	wasAway := watcher.away
	watcher.away = false
	watcher.mu.Unlock()
	if wasAway && watcher.callbacks.OnBack != nil {
		watcher.callbacks.OnBack()
	}
}

// Away reports the last observed state.
func (watcher *AwayWatcher) Away() bool {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	return watcher.away
}

// Check samples the provider once and fires callbacks on a transition.
func (watcher *AwayWatcher) Check() {
	watcher.mu.Lock()
	if watcher.unsupported {
		watcher.mu.Unlock()
		return
	}
	watcher.mu.Unlock()

	idle, err := watcher.provider.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrAwayUnsupported) {
			watcher.mu.Lock()
			watcher.unsupported = true
			watcher.mu.Unlock()
		}
		if watcher.callbacks.OnError != nil {
			watcher.callbacks.OnError(err)
		}
		return
	}

	watcher.mu.Lock()
	wasAway := watcher.away
	watcher.away = idle >= watcher.threshold
	isAway := watcher.away
	watcher.mu.Unlock()

	switch {
	case isAway && !wasAway && watcher.callbacks.OnAway != nil:
		watcher.callbacks.OnAway()
	case !isAway && wasAway && watcher.callbacks.OnBack != nil:
		watcher.callbacks.OnBack()
	}
}

func (watcher *AwayWatcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(watcher.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			watcher.Check()
		}
	}
}

package phasetimer

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"phasering/internal/core/model"
	"phasering/internal/storage"
)

var epoch = time.UnixMilli(1_700_000_000_000)

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (ticker *fakeTicker) C() <-chan time.Time {
	return ticker.ch
}

func (ticker *fakeTicker) Stop() {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	ticker.stopped = true
}

func (ticker *fakeTicker) Stopped() bool {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.stopped
}

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Set(now time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = now
}

func (clock *fakeClock) Advance(d time.Duration) time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
	return clock.now
}

func (clock *fakeClock) NewTicker(time.Duration) Ticker {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	ticker := &fakeTicker{ch: make(chan time.Time)}
	clock.tickers = append(clock.tickers, ticker)
	return ticker
}

func (clock *fakeClock) Tickers() []*fakeTicker {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return append([]*fakeTicker(nil), clock.tickers...)
}

func (clock *fakeClock) Latest() *fakeTicker {
	tickers := clock.Tickers()
	if len(tickers) == 0 {
		return nil
	}
	return tickers[len(tickers)-1]
}

type cueRecorder struct {
	mu   sync.Mutex
	cues []Cue
	err  error
}

func (recorder *cueRecorder) PlayCue(cue Cue) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.cues = append(recorder.cues, cue)
	return recorder.err
}

func (recorder *cueRecorder) Cues() []Cue {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]Cue(nil), recorder.cues...)
}

type renderRecorder struct {
	mu       sync.Mutex
	displays []Display
}

func (recorder *renderRecorder) Render(display Display) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.displays = append(recorder.displays, display)
}

func (recorder *renderRecorder) Last() (Display, bool) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.displays) == 0 {
		return Display{}, false
	}
	return recorder.displays[len(recorder.displays)-1], true
}

func (recorder *renderRecorder) Count() int {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return len(recorder.displays)
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (brokenStore) Set(string, []byte) error { return errors.New("disk on fire") }
func (brokenStore) Remove(string) error { return errors.New("disk on fire") }

type harness struct {
	timer  *Timer
	clock  *fakeClock
	store  *storage.MemoryStore
	cues   *cueRecorder
	render *renderRecorder
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, store storage.Store) *harness {
	t.Helper()
	h := &harness{
		clock:  newFakeClock(epoch),
		cues:   &cueRecorder{},
		render: &renderRecorder{},
		logs:   &bytes.Buffer{},
	}
	if store == nil {
		h.store = storage.NewMemoryStore()
		store = h.store
	}
	h.timer = New(model.DefaultTimerConfig(),
		WithStore(store),
		WithClock(h.clock),
		WithCuePlayer(h.cues),
		WithRenderer(h.render.Render),
		WithLogger(log.New(h.logs, "", 0)),
	)
	t.Cleanup(h.timer.Close)
	return h
}

func (h *harness) seed(t *testing.T, snapshot Snapshot) {
	t.Helper()
	data, err := MarshalSnapshot(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if err := h.store.Set(model.DefaultTimerConfig().StateKey, data); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
}

func (h *harness) stored(t *testing.T) Snapshot {
	t.Helper()
	data, err := h.store.Get(model.DefaultTimerConfig().StateKey)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	snapshot, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snapshot
}

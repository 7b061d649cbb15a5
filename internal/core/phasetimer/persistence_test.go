package phasetimer

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"phasering/internal/core/model"
	"phasering/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRestoreWithoutSnapshotResets(t *testing.T) {
	h := newHarness(t, nil)

	h.timer.Restore()

	assert.Equal(t, ModeIdle, h.timer.State().Mode())
	assert.Equal(t, model.WorkDuration, h.timer.State().WorkRemaining)
	display, ok := h.render.Last()
	require.True(t, ok)
	assert.Equal(t, "25:00", display.Text)
	assert.False(t, h.stored(t).Running)
}

func TestRestoreIdleSnapshotKeepsPartialRemaining(t *testing.T) {
	h := newHarness(t, nil)
	h.seed(t, Snapshot{
		WorkActive:     true,
		WorkRemaining:  12 * time.Minute,
		BreakRemaining: model.BreakDuration,
	})

	h.timer.Restore()

	state := h.timer.State()
	assert.Equal(t, ModeIdle, state.Mode())
	assert.Equal(t, 12*time.Minute, state.WorkRemaining)
	assert.False(t, h.timer.Scheduled())
	assert.Empty(t, h.cues.Cues())
}

func TestRestoreRunningSnapshotAppliesDrift(t *testing.T) {
	h := newHarness(t, nil)
	h.seed(t, Snapshot{
		WorkActive:     true,
		WorkRemaining:  10 * time.Minute,
		BreakRemaining: model.BreakDuration,
		Running:        true,
		LastUpdate:     epoch.Add(-3 * time.Minute),
	})

	h.timer.Restore()

	state := h.timer.State()
	assert.Equal(t, ModeRunningWork, state.Mode())
	assert.Equal(t, 7*time.Minute, state.WorkRemaining)
	assert.Equal(t, epoch, state.LastTick)
	assert.True(t, h.timer.Scheduled())
	assert.Empty(t, h.cues.Cues())
}

func TestRestoreDriftCompletesWorkPhase(t *testing.T) {
	h := newHarness(t, nil)
	h.seed(t, Snapshot{
		WorkActive:     true,
		WorkRemaining:  10_000 * time.Millisecond,
		BreakRemaining: model.BreakDuration,
		Running:        true,
		LastUpdate:     epoch.Add(-15_000 * time.Millisecond),
	})

	h.timer.Restore()

	state := h.timer.State()
	assert.Equal(t, PhaseBreak, state.Phase)
	assert.True(t, state.Running)
	assert.Equal(t, model.BreakDuration, state.BreakRemaining)
	assert.Equal(t, []Cue{CueWorkDone}, h.cues.Cues())
}

func TestRestoreDriftCompletesBreakPhaseIntoReset(t *testing.T) {
	h := newHarness(t, nil)
	h.seed(t, Snapshot{
		WorkActive:     false,
		BreakRemaining: 30 * time.Second,
		Running:        true,
		LastUpdate:     epoch.Add(-2 * time.Hour),
	})

	h.timer.Restore()

	state := h.timer.State()
	assert.Equal(t, ModeIdle, state.Mode())
	assert.Equal(t, model.WorkDuration, state.WorkRemaining)
	assert.Equal(t, model.BreakDuration, state.BreakRemaining)
	assert.Equal(t, []Cue{CueBreakDone}, h.cues.Cues())
	assert.False(t, h.timer.Scheduled())
}

func TestRestoreMalformedSnapshotResets(t *testing.T) {
	for name, raw := range map[string]string{
		"array":          `[1, 2, 3]`,
		"number":         `42`,
		"string":         `"running"`,
		"null":           `null`,
		"garbage":        `{{{`,
		"empty":          ``,
		"missing fields": `{"isTimer1Active": true}`,
		"wrong types":    `{"isTimer1Active": "yes", "timer1Remaining": 1, "timer2Remaining": 1, "isRunning": false, "lastUpdateTime": null}`,
		"negative":       `{"isTimer1Active": true, "timer1Remaining": -1, "timer2Remaining": 1, "isRunning": false, "lastUpdateTime": null}`,
		"over full":      `{"isTimer1Active": true, "timer1Remaining": 1500001, "timer2Remaining": 1, "isRunning": false, "lastUpdateTime": null}`,
		"running null":   `{"isTimer1Active": true, "timer1Remaining": 1000, "timer2Remaining": 1, "isRunning": true, "lastUpdateTime": null}`,
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, nil)
			require.NoError(t, h.store.Set(model.DefaultTimerConfig().StateKey, []byte(raw)))

			_, ok := h.timer.LoadState()
			assert.False(t, ok)

			require.NotPanics(t, h.timer.Restore)
			assert.Equal(t, ModeIdle, h.timer.State().Mode())
			assert.Equal(t, model.WorkDuration, h.timer.State().WorkRemaining)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		clock := newFakeClock(epoch)
		store := storage.NewMemoryStore()
		timer := New(model.DefaultTimerConfig(), WithClock(clock), WithStore(store), WithLogger(log.New(io.Discard, "", 0)))
		defer timer.Close()

		timer.Start()
		steps := rapid.IntRange(0, 5).Draw(rt, "steps")
		now := epoch
		for i := 0; i < steps; i++ {
			now = now.Add(time.Duration(rapid.Int64Range(0, 600_000).Draw(rt, "stepMillis")) * time.Millisecond)
			timer.Tick(now)
		}
		if rapid.Bool().Draw(rt, "paused") {
			clock.Set(now)
			timer.Pause()
		}
		clock.Set(now)
		before := timer.State()

		timer.SaveState()
		restored := New(model.DefaultTimerConfig(), WithClock(clock), WithStore(store), WithLogger(log.New(io.Discard, "", 0)))
		defer restored.Close()
		restored.Restore()

		assert.Equal(rt, before, restored.State())
	})
}

func TestRoundTripOffMillisecondBoundary(t *testing.T) {
	h := newHarness(t, nil)
	start := epoch.Add(700 * time.Microsecond)
	h.clock.Set(start)
	h.timer.Start()
	h.timer.Tick(start.Add(90*time.Second + 400*time.Microsecond))
	before := h.timer.State()

	restored := newHarness(t, h.store)
	restored.clock.Set(start.Add(90*time.Second + 900*time.Microsecond))
	restored.timer.Restore()

	assert.Equal(t, model.WorkDuration-90*time.Second, before.WorkRemaining)
	assert.Equal(t, before, restored.timer.State())
}

func TestSaveStateWithUnavailableStorage(t *testing.T) {
	h := newHarness(t, brokenStore{})

	require.NotPanics(t, func() {
		h.timer.Restore()
		h.timer.Start()
		h.timer.Tick(epoch.Add(time.Minute))
		h.timer.SaveState()
	})

	assert.Equal(t, model.WorkDuration-time.Minute, h.timer.State().WorkRemaining)
	assert.Equal(t, 1, strings.Count(h.logs.String(), "persistence disabled"))
}

func TestNoStoreRunsInMemory(t *testing.T) {
	clock := newFakeClock(epoch)
	timer := New(model.DefaultTimerConfig(), WithClock(clock), WithLogger(log.New(io.Discard, "", 0)))
	defer timer.Close()

	timer.Restore()
	timer.Start()
	timer.Tick(epoch.Add(time.Second))

	assert.Equal(t, model.WorkDuration-time.Second, timer.State().WorkRemaining)
}

func TestClearStateRemovesSnapshot(t *testing.T) {
	h := newHarness(t, nil)
	h.timer.Start()

	h.timer.ClearState()

	_, err := h.store.Get(model.DefaultTimerConfig().StateKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.True(t, h.timer.State().Running)
}

func TestEveryMutationPersists(t *testing.T) {
	h := newHarness(t, nil)

	h.timer.Start()
	assert.True(t, h.stored(t).Running)

	h.timer.Tick(epoch.Add(time.Minute))
	assert.Equal(t, model.WorkDuration-time.Minute, h.stored(t).WorkRemaining)
	assert.Equal(t, epoch.Add(time.Minute), h.stored(t).LastUpdate)

	h.timer.Reset()
	assert.Equal(t, Snapshot{WorkActive: true, WorkRemaining: model.WorkDuration, BreakRemaining: model.BreakDuration}, h.stored(t))
}

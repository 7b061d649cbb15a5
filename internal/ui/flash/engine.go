package flash

import (
	"context"
	"sync"
	"time"

	"phasering/internal/core/phasetimer"
)

// Config contains flash timing values.
type Config struct {
	Pulses int
	On     time.Duration
	Off    time.Duration
}

// DefaultConfig returns the flash played when a phase runs out.
func DefaultConfig() Config {
	return Config{
		Pulses: 3,
		On:     350 * time.Millisecond,
		Off:    250 * time.Millisecond,
	}
}

// Engine pulses the ring of a phase. Only one flash runs at a time; starting
// another cancels the previous one.
type Engine struct {
	mu        sync.Mutex
	config    Config
	highlight func(phasetimer.Phase, bool)
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a flash engine. highlight is called from the engine goroutine.
func New(config Config, highlight func(phasetimer.Phase, bool)) *Engine {
	if config.Pulses <= 0 {
		config.Pulses = DefaultConfig().Pulses
	}
	return &Engine{
		config:    config,
		highlight: highlight,
	}
}

// PlayCue flashes the ring of the phase that just ran out. It satisfies
// phasetimer.CuePlayer and never blocks.
func (engine *Engine) PlayCue(cue phasetimer.Cue) error {
	engine.Start(context.Background(), TargetFor(cue))
	return nil
}

// Start begins flashing phase.
func (engine *Engine) Start(ctx context.Context, phase phasetimer.Phase) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		engine.run(runCtx, phase)
	}()
}

// Stop terminates any active flash and waits for it to settle.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (engine *Engine) run(ctx context.Context, phase phasetimer.Phase) {
	// The ring always ends unhighlighted, cancelled or not.
	defer engine.highlight(phase, false)

	for pulse := 0; pulse < engine.config.Pulses; pulse++ {
		engine.highlight(phase, true)
		if !sleepWithContext(ctx, engine.config.On) {
			return
		}
		engine.highlight(phase, false)
		if !sleepWithContext(ctx, engine.config.Off) {
			return
		}
	}
}

// TargetFor maps a cue to the ring it concerns.
func TargetFor(cue phasetimer.Cue) phasetimer.Phase {
	if cue == phasetimer.CueBreakDone {
		return phasetimer.PhaseBreak
	}
	return phasetimer.PhaseWork
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

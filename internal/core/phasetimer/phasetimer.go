// Package phasetimer implements the work/break countdown: a two-phase state
// machine whose state is persisted after every change and reconciled with
// wall-clock time whenever it is loaded or resumed.
package phasetimer

import (
	"log"
	"sync"
	"time"

	"phasering/internal/core/model"
	"phasering/internal/storage"
)

// Option configures a Timer.
type Option func(*Timer)

// WithStore sets the persistence backend. The store is wrapped in a
// capability probe; without one the timer runs in memory only.
func WithStore(store storage.Store) Option {
	return func(timer *Timer) {
		timer.rawStore = store
	}
}

// WithCuePlayer sets the sound cue collaborator.
func WithCuePlayer(player CuePlayer) Option {
	return func(timer *Timer) {
		timer.cues = player
	}
}

// WithRenderer sets the display callback.
func WithRenderer(render RenderFunc) Option {
	return func(timer *Timer) {
		timer.render = render
	}
}

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(timer *Timer) {
		timer.clock = clock
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(timer *Timer) {
		timer.logger = logger
	}
}

// Timer owns all temporal state of the widget.
//
// Every public method runs to completion under the timer lock, so ticks,
// button presses and lifecycle hooks never interleave. Render and cue
// callbacks are invoked inside that critical section.
type Timer struct {
	mu     sync.Mutex
	config model.TimerConfig

	phase          Phase
	workRemaining  time.Duration
	breakRemaining time.Duration
	running        bool
	lastTick       time.Time

	visible       bool
	closed        bool
	persistFailed bool
	stopTicks     chan struct{}

	clock    Clock
	rawStore storage.Store
	store    *storage.Guarded
	cues     CuePlayer
	render   RenderFunc
	logger   *log.Logger
}

// New creates an idle Timer at full durations. Call Restore to pick up
// persisted state.
func New(config model.TimerConfig, opts ...Option) *Timer {
	defaults := model.DefaultTimerConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if config.StateKey == "" {
		config.StateKey = defaults.StateKey
	}

	timer := &Timer{
		config:  config,
		visible: true,
		clock:   SystemClock,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(timer)
	}
	if timer.clock == nil {
		timer.clock = SystemClock
	}
	if timer.logger == nil {
		timer.logger = log.Default()
	}
	timer.store = storage.Guard(timer.rawStore, timer.logger)
	timer.resetLocked()
	return timer
}

// SetRenderer replaces the display callback.
func (timer *Timer) SetRenderer(render RenderFunc) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.render = render
}

// SetCuePlayer replaces the sound cue collaborator.
func (timer *Timer) SetCuePlayer(player CuePlayer) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.cues = player
}

// Start begins or continues the countdown of the active phase.
// It is a no-op while already running.
func (timer *Timer) Start() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.running || timer.closed {
		return
	}
	timer.startLocked(timer.clock.Now())
	timer.commitLocked()
}

// Tick accounts the time elapsed since the previous tick. A late tick
// subtracts the real elapsed time, not a fixed step.
func (timer *Timer) Tick(now time.Time) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running {
		return
	}
	timer.tickLocked(now)
	timer.commitLocked()
}

// Reset returns to an idle work phase at full durations.
func (timer *Timer) Reset() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.resetLocked()
	timer.commitLocked()
}

// Pause stops the countdown and keeps the remaining time of both phases.
func (timer *Timer) Pause() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running {
		return
	}
	timer.tickLocked(timer.clock.Now())
	timer.running = false
	timer.lastTick = time.Time{}
	timer.commitLocked()
}

// PauseWork pauses a running work phase and reports whether it did. A break
// or an idle timer is left alone.
func (timer *Timer) PauseWork() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.running || timer.phase != PhaseWork {
		return false
	}
	timer.tickLocked(timer.clock.Now())
	paused := timer.phase == PhaseWork
	if paused {
		timer.running = false
		timer.lastTick = time.Time{}
	}
	timer.commitLocked()
	return paused
}

// State returns a copy of the in-memory state.
func (timer *Timer) State() State {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.stateLocked()
}

// Display returns the values last handed to the render callback.
func (timer *Timer) Display() Display {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.displayLocked()
}

func (timer *Timer) startLocked(now time.Time) {
	timer.running = true
	timer.lastTick = truncateTick(now)
}

func (timer *Timer) resetLocked() {
	timer.phase = PhaseWork
	timer.workRemaining = model.WorkDuration
	timer.breakRemaining = model.BreakDuration
	timer.running = false
	timer.lastTick = time.Time{}
}

func (timer *Timer) tickLocked(now time.Time) {
	now = truncateTick(now)
	delta := now.Sub(timer.lastTick)
	if delta < 0 {
		delta = 0
	}
	timer.lastTick = now

	if timer.phase == PhaseWork {
		timer.workRemaining = floorZero(timer.workRemaining - delta)
		if timer.workRemaining == 0 {
			timer.finishWorkLocked()
		}
		return
	}

	timer.breakRemaining = floorZero(timer.breakRemaining - delta)
	if timer.breakRemaining == 0 {
		timer.playCueLocked(CueBreakDone)
		timer.resetLocked()
		timer.startLocked(now)
	}
}

func (timer *Timer) finishWorkLocked() {
	timer.playCueLocked(CueWorkDone)
	timer.phase = PhaseBreak
}

// commitLocked brings the scheduler in line with the state, then renders and
// persists.
func (timer *Timer) commitLocked() {
	timer.syncSchedulerLocked()
	timer.renderLocked()
	timer.saveStateLocked()
}

func (timer *Timer) stateLocked() State {
	return State{
		Phase:          timer.phase,
		WorkRemaining:  timer.workRemaining,
		BreakRemaining: timer.breakRemaining,
		Running:        timer.running,
		LastTick:       timer.lastTick,
	}
}

func (timer *Timer) displayLocked() Display {
	active := timer.workRemaining
	if timer.phase == PhaseBreak {
		active = timer.breakRemaining
	}
	return Display{
		Text:    FormatRemaining(active),
		Work:    Fraction(timer.workRemaining, model.WorkDuration),
		Break:   Fraction(timer.breakRemaining, model.BreakDuration),
		Running: timer.running,
		Phase:   timer.phase,
	}
}

func (timer *Timer) renderLocked() {
	if timer.render == nil {
		return
	}
	timer.render(timer.displayLocked())
}

func (timer *Timer) playCueLocked(cue Cue) {
	if timer.cues == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			timer.logger.Printf("cue %s: player panicked: %v", cue, recovered)
		}
	}()
	if err := timer.cues.PlayCue(cue); err != nil {
		timer.logger.Printf("cue %s: %v", cue, err)
	}
}

// truncateTick drops precision the persisted lastUpdateTime cannot carry, so
// a save and restore never charges time that did not pass.
func truncateTick(now time.Time) time.Time {
	return now.Truncate(time.Millisecond)
}

func floorZero(value time.Duration) time.Duration {
	if value < 0 {
		return 0
	}
	return value
}

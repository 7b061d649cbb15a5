package phasetimer

import "time"

// Phase identifies which countdown is live.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Mode is the coarse state machine position.
type Mode string

const (
	ModeIdle         Mode = "idle"
	ModeRunningWork  Mode = "running_work"
	ModeRunningBreak Mode = "running_break"
)

// Cue identifies a phase-completion sound.
type Cue string

const (
	CueWorkDone  Cue = "work_done"
	CueBreakDone Cue = "break_done"
)

// CuePlayer plays phase-completion sounds. Errors are logged by the timer
// and never interrupt a transition.
type CuePlayer interface {
	PlayCue(cue Cue) error
}

// CuePlayerFunc adapts a function to CuePlayer.
type CuePlayerFunc func(cue Cue) error

// PlayCue calls fn(cue).
func (fn CuePlayerFunc) PlayCue(cue Cue) error {
	return fn(cue)
}

// Display is what the presentation layer draws after every state change.
type Display struct {
	Text    string
	Work    float64
	Break   float64
	Running bool
	Phase   Phase
}

// RenderFunc receives a Display after every state change. It runs while the
// timer holds its lock and must not call back into the Timer.
type RenderFunc func(display Display)

// State is a copy of the timer's in-memory state.
type State struct {
	Phase          Phase
	WorkRemaining  time.Duration
	BreakRemaining time.Duration
	Running        bool
	LastTick       time.Time
}

// Mode reports where the state sits in the Idle/RunningWork/RunningBreak
// machine.
func (state State) Mode() Mode {
	if !state.Running {
		return ModeIdle
	}
	if state.Phase == PhaseBreak {
		return ModeRunningBreak
	}
	return ModeRunningWork
}

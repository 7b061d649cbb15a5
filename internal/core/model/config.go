package model

import "time"

// Phase durations are fixed; only the tick cadence is tunable.
const (
	WorkDuration  = 25 * time.Minute
	BreakDuration = 5 * time.Minute
)

// DefaultTickInterval is how often a running timer accounts elapsed time.
const DefaultTickInterval = time.Second

// TimerConfig contains runtime settings for the PhaseTimer state machine.
type TimerConfig struct {
	TickInterval time.Duration
	StateKey     string
}

// DefaultTimerConfig returns the configuration used by the widget.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		TickInterval: DefaultTickInterval,
		StateKey:     "phasering.timerState",
	}
}

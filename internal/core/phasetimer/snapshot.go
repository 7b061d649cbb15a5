package phasetimer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"phasering/internal/core/model"

	"github.com/goccy/go-json"
)

// ErrMalformedSnapshot marks a stored snapshot that cannot be trusted.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is the persisted form of the timer state.
type Snapshot struct {
	WorkActive     bool
	WorkRemaining  time.Duration
	BreakRemaining time.Duration
	Running        bool
	// LastUpdate is zero unless Running.
	LastUpdate time.Time
}

// wireSnapshot keeps the field names of the browser widget's localStorage
// entry so existing state stays readable. Durations are milliseconds,
// lastUpdateTime is epoch milliseconds or null.
type wireSnapshot struct {
	IsTimer1Active  bool     `json:"isTimer1Active"`
	Timer1Remaining float64  `json:"timer1Remaining"`
	Timer2Remaining float64  `json:"timer2Remaining"`
	IsRunning       bool     `json:"isRunning"`
	LastUpdateTime  *float64 `json:"lastUpdateTime"`
}

// MarshalSnapshot encodes snapshot in the wire format.
func MarshalSnapshot(snapshot Snapshot) ([]byte, error) {
	wire := wireSnapshot{
		IsTimer1Active:  snapshot.WorkActive,
		Timer1Remaining: durationToMillis(snapshot.WorkRemaining),
		Timer2Remaining: durationToMillis(snapshot.BreakRemaining),
		IsRunning:       snapshot.Running,
	}
	if snapshot.Running {
		lastUpdate := float64(snapshot.LastUpdate.UnixMilli())
		wire.LastUpdateTime = &lastUpdate
	}
	return json.Marshal(wire)
}

// UnmarshalSnapshot decodes and validates a stored snapshot. Anything that is
// not a complete, in-range object yields ErrMalformedSnapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if fields == nil {
		return Snapshot{}, fmt.Errorf("%w: not an object", ErrMalformedSnapshot)
	}

	workActive, err := boolField(fields, "isTimer1Active")
	if err != nil {
		return Snapshot{}, err
	}
	running, err := boolField(fields, "isRunning")
	if err != nil {
		return Snapshot{}, err
	}
	workRemaining, err := durationField(fields, "timer1Remaining", model.WorkDuration)
	if err != nil {
		return Snapshot{}, err
	}
	breakRemaining, err := durationField(fields, "timer2Remaining", model.BreakDuration)
	if err != nil {
		return Snapshot{}, err
	}

	rawLastUpdate, ok := fields["lastUpdateTime"]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: missing lastUpdateTime", ErrMalformedSnapshot)
	}

	snapshot := Snapshot{
		WorkActive:     workActive,
		WorkRemaining:  workRemaining,
		BreakRemaining: breakRemaining,
		Running:        running,
	}
	if !running {
		return snapshot, nil
	}

	lastUpdate, ok := rawLastUpdate.(float64)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: running without lastUpdateTime", ErrMalformedSnapshot)
	}
	snapshot.LastUpdate = time.UnixMilli(int64(lastUpdate))
	return snapshot, nil
}

func boolField(fields map[string]any, name string) (bool, error) {
	value, ok := fields[name].(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is not a bool", ErrMalformedSnapshot, name)
	}
	return value, nil
}

func durationField(fields map[string]any, name string, limit time.Duration) (time.Duration, error) {
	millis, ok := fields[name].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformedSnapshot, name)
	}
	nanos := math.Round(millis * float64(time.Millisecond))
	if nanos < 0 || nanos > float64(limit) {
		return 0, fmt.Errorf("%w: %s %vms outside [0, %v]", ErrMalformedSnapshot, name, millis, limit)
	}
	return time.Duration(nanos), nil
}

func durationToMillis(value time.Duration) float64 {
	return float64(value) / float64(time.Millisecond)
}

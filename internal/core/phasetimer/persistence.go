package phasetimer

import (
	"errors"
	"time"

	"phasering/internal/storage"
)

// Restore loads the persisted snapshot and reconciles it with the time that
// passed since it was written. Without a usable snapshot the timer resets.
func (timer *Timer) Restore() {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	snapshot, ok := timer.loadStateLocked()
	if !ok {
		timer.resetLocked()
	} else {
		timer.applySnapshotLocked(snapshot, timer.clock.Now())
	}
	timer.commitLocked()
}

// Snapshot returns what saveState would write right now.
func (timer *Timer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked()
}

// LoadState reads the stored snapshot without applying it.
// ok is false when nothing usable is stored.
func (timer *Timer) LoadState() (Snapshot, bool) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.loadStateLocked()
}

// SaveState persists the current state. Failures are logged, never returned.
func (timer *Timer) SaveState() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.saveStateLocked()
}

// ClearState removes the stored snapshot. The in-memory state is untouched.
func (timer *Timer) ClearState() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if err := timer.store.Remove(timer.config.StateKey); err != nil && !errors.Is(err, storage.ErrUnavailable) {
		timer.logger.Printf("clear state: %v", err)
	}
}

func (timer *Timer) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		WorkActive:     timer.phase == PhaseWork,
		WorkRemaining:  timer.workRemaining,
		BreakRemaining: timer.breakRemaining,
		Running:        timer.running,
	}
	if timer.running {
		snapshot.LastUpdate = timer.lastTick
	}
	return snapshot
}

func (timer *Timer) saveStateLocked() {
	data, err := MarshalSnapshot(timer.snapshotLocked())
	if err != nil {
		timer.logger.Printf("save state: %v", err)
		timer.persistFailed = true
		return
	}
	// The guarded store logs its own failures.
	timer.persistFailed = timer.store.Set(timer.config.StateKey, data) != nil
}

func (timer *Timer) loadStateLocked() (Snapshot, bool) {
	data, err := timer.store.Get(timer.config.StateKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrUnavailable) {
			timer.logger.Printf("load state: %v", err)
		}
		return Snapshot{}, false
	}

	snapshot, err := UnmarshalSnapshot(data)
	if err != nil {
		timer.logger.Printf("load state: %v", err)
		return Snapshot{}, false
	}
	return snapshot, true
}

// applySnapshotLocked installs snapshot and charges the active phase with the
// time that passed since it was written. A work phase that ran out moves to
// the break phase; a break phase that ran out folds into a reset.
func (timer *Timer) applySnapshotLocked(snapshot Snapshot, now time.Time) {
	timer.phase = PhaseBreak
	if snapshot.WorkActive {
		timer.phase = PhaseWork
	}
	timer.workRemaining = snapshot.WorkRemaining
	timer.breakRemaining = snapshot.BreakRemaining
	timer.running = false
	timer.lastTick = time.Time{}

	if !snapshot.Running {
		return
	}

	now = truncateTick(now)
	elapsed := now.Sub(snapshot.LastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}
	timer.startLocked(now)

	if timer.phase == PhaseWork {
		timer.workRemaining = floorZero(timer.workRemaining - elapsed)
		if timer.workRemaining == 0 {
			timer.finishWorkLocked()
		}
		return
	}

	timer.breakRemaining = floorZero(timer.breakRemaining - elapsed)
	if timer.breakRemaining == 0 {
		timer.playCueLocked(CueBreakDone)
		timer.resetLocked()
	}
}

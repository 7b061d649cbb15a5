package phasetimer

// Hide is called when the presentation stops being visible. A running timer
// accounts time up to now, stops its scheduler and persists the snapshot with
// the running flag still set, so the countdown keeps flowing while hidden.
func (timer *Timer) Hide() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if !timer.visible {
		return
	}
	timer.visible = false
	if timer.running {
		timer.tickLocked(timer.clock.Now())
	}
	timer.syncSchedulerLocked()
	timer.saveStateLocked()
}

// Show is called when the presentation becomes visible again. A running timer
// reloads its snapshot, applies the drift since it was written and resumes
// ticking. The in-memory state stands in when storage cannot be trusted.
func (timer *Timer) Show() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.visible {
		return
	}
	timer.visible = true
	if timer.running {
		snapshot := timer.snapshotLocked()
		if !timer.persistFailed {
			if stored, ok := timer.loadStateLocked(); ok {
				snapshot = stored
			}
		}
		timer.applySnapshotLocked(snapshot, timer.clock.Now())
	}
	timer.commitLocked()
}

// Visible reports whether the timer believes its presentation is shown.
func (timer *Timer) Visible() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.visible
}

// Flush accounts time up to now and persists. It backs the before-exit hook.
func (timer *Timer) Flush() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.flushLocked()
}

// Close stops the scheduler for good and flushes the final state.
func (timer *Timer) Close() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return
	}
	timer.closed = true
	timer.syncSchedulerLocked()
	timer.flushLocked()
}

func (timer *Timer) flushLocked() {
	if timer.running {
		timer.tickLocked(timer.clock.Now())
	}
	timer.saveStateLocked()
}

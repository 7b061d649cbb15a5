package phasetimer

// syncSchedulerLocked keeps exactly one tick loop alive while the timer is
// running and visible, and none otherwise.
func (timer *Timer) syncSchedulerLocked() {
	wanted := timer.running && timer.visible && !timer.closed
	switch {
	case wanted && timer.stopTicks == nil:
		stop := make(chan struct{})
		timer.stopTicks = stop
		go timer.run(timer.clock.NewTicker(timer.config.TickInterval), stop)
	case !wanted && timer.stopTicks != nil:
		close(timer.stopTicks)
		timer.stopTicks = nil
	}
}

// Scheduled reports whether a tick loop is currently active.
func (timer *Timer) Scheduled() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.stopTicks != nil
}

func (timer *Timer) run(ticker Ticker, stop chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			timer.scheduledTick(stop)
		}
	}
}

func (timer *Timer) scheduledTick(stop chan struct{}) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	// A loop that was replaced while waiting for the lock must not tick.
	if timer.stopTicks != stop || !timer.running {
		return
	}
	timer.tickLocked(timer.clock.Now())
	timer.commitLocked()
}

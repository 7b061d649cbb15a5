package main

import (
	"errors"
	"log"
	"sync"
	"time"

	"phasering/internal/core/phasetimer"
	"phasering/internal/platform"
	"phasering/internal/storage"
	"phasering/internal/ui/preferences"
)

const awayPollInterval = 5 * time.Second

// visibilityTarget is the part of the timer that follows what the user sees.
type visibilityTarget interface {
	Show()
	Hide()
}

// presence hides the timer only when nothing shows it: the widget is closed
// and there is no tray to keep counting down in.
type presence struct {
	mu     sync.Mutex
	target visibilityTarget
	tray   bool
	widget bool
}

func newPresence(target visibilityTarget, tray, widget bool) *presence {
	return &presence{target: target, tray: tray, widget: widget}
}

func (presence *presence) setWidget(visible bool) {
	presence.mu.Lock()
	defer presence.mu.Unlock()
	presence.widget = visible
	presence.applyLocked()
}

func (presence *presence) applyLocked() {
	if presence.tray || presence.widget {
		presence.target.Show()
		return
	}
	presence.target.Hide()
}

// workPauser is the part of the timer the away watcher drives.
type workPauser interface {
	PauseWork() bool
	Start()
}

// awayPause pauses a work phase while the user is away and resumes it on
// their return. A timer the user paused or left on a break is not touched.
type awayPause struct {
	mu     sync.Mutex
	timer  workPauser
	paused bool
}

func (pause *awayPause) away() bool {
	pause.mu.Lock()
	defer pause.mu.Unlock()
	if pause.paused {
		return false
	}
	pause.paused = pause.timer.PauseWork()
	return pause.paused
}

// forget drops a pending resume, so shutting down leaves the timer paused.
func (pause *awayPause) forget() {
	pause.mu.Lock()
	defer pause.mu.Unlock()
	pause.paused = false
}

func (pause *awayPause) back() {
	pause.mu.Lock()
	defer pause.mu.Unlock()
	if !pause.paused {
		return
	}
	pause.paused = false
	pause.timer.Start()
}

// cueFanout plays a cue on every player; one failing player does not silence
// the others.
type cueFanout []phasetimer.CuePlayer

func (players cueFanout) PlayCue(cue phasetimer.Cue) error {
	var errs []error
	for _, player := range players {
		if err := player.PlayCue(cue); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// application holds the long-lived collaborators that react to settings.
type application struct {
	logger    *log.Logger
	configDir string

	mu           sync.Mutex
	settings     preferences.Settings
	chime        *platform.ChimePlayer
	awayPause    *awayPause
	awayProvider platform.AwayProvider
	awayInterval time.Duration
	away         *platform.AwayWatcher
	onSettings   func(preferences.Settings)
}

// applySettings pushes settings to every collaborator. The storage backend
// is only read at startup.
func (app *application) applySettings(settings preferences.Settings) {
	app.mu.Lock()
	app.settings = settings
	onSettings := app.onSettings
	app.mu.Unlock()

	if app.chime != nil {
		app.chime.SetVolume(settings.EffectiveVolume())
	}
	app.configureAway(settings)
	if onSettings != nil {
		onSettings(settings)
	}
}

// saveSettings persists settings edited in the preferences window.
func (app *application) saveSettings(settings preferences.Settings) {
	if err := storage.SaveSettings(app.configDir, settings); err != nil {
		app.logger.Printf("save settings: %v", err)
	}
	app.applySettings(settings)
}

// reloadSettings rereads the settings file after an external edit.
func (app *application) reloadSettings() {
	settings, err := storage.LoadSettings(app.configDir)
	if err != nil {
		app.logger.Printf("reload settings: %v", err)
		return
	}
	app.mu.Lock()
	unchanged := settings == app.settings
	app.mu.Unlock()
	if unchanged {
		return
	}
	app.applySettings(settings)
}

func (app *application) currentSettings() preferences.Settings {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.settings
}

// configureAway replaces the away watcher so its threshold follows settings.
func (app *application) configureAway(settings preferences.Settings) {
	app.mu.Lock()
	previous := app.away
	app.away = nil
	app.mu.Unlock()

	// Stopping reports a pending absence as a return.
	if previous != nil {
		previous.Stop()
	}
	if !settings.PauseWhenAway || app.awayProvider == nil || app.awayPause == nil {
		return
	}

	interval := app.awayInterval
	if interval <= 0 {
		interval = awayPollInterval
	}
	watcher := platform.NewAwayWatcher(app.awayProvider, settings.AwayAfter, interval, platform.AwayCallbacks{
		OnAway: func() {
			if app.awayPause.away() {
				app.logger.Printf("away: pausing work")
			}
		},
		OnBack: func() {
			app.awayPause.back()
		},
		OnError: func(err error) {
			app.logger.Printf("away: %v", err)
		},
	})
	app.mu.Lock()
	app.away = watcher
	app.mu.Unlock()
	watcher.Start()
}

func (app *application) stop() {
	app.mu.Lock()
	watcher := app.away
	app.away = nil
	app.mu.Unlock()
	if app.awayPause != nil {
		app.awayPause.forget()
	}
	if watcher != nil {
		watcher.Stop()
	}
}

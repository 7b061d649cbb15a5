package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"phasering/internal/core/model"
	"phasering/internal/core/phasetimer"
	"phasering/internal/platform"
	"phasering/internal/storage"
	"phasering/internal/ui/flash"
	"phasering/internal/ui/preferences"
	"phasering/internal/ui/ring"
	"phasering/internal/ui/tray"
	"phasering/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "PhaseRing"

func main() {
	logger := log.New(os.Stderr, "phasering: ", log.LstdFlags)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Printf("already running, asked it to show the widget")
			return
		}
		logger.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	configDir, err := storage.ConfigDir(appName)
	if err != nil {
		logger.Printf("config dir: %v", err)
		configDir = filepath.Join(os.TempDir(), appName)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		logger.Printf("create config dir: %v", err)
	}

	settings, err := storage.LoadSettings(configDir)
	if err != nil {
		logger.Printf("load settings: %v", err)
	}

	store, closeStore, err := storage.Open(settings.StorageBackend, configDir)
	if err != nil {
		logger.Printf("storage: %v, keeping state in memory", err)
		store = storage.NewMemoryStore()
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Printf("close storage: %v", err)
		}
	}()

	fyneApp := fyneapp.NewWithID("com.phasering.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconApp))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Printf("system tray unsupported on this platform")
	}

	timer := phasetimer.New(model.DefaultTimerConfig(),
		phasetimer.WithStore(store),
		phasetimer.WithLogger(logger),
	)

	app := &application{
		logger:       logger,
		configDir:    configDir,
		settings:     settings,
		chime:        platform.NewChimePlayer(settings.EffectiveVolume()),
		awayPause:    &awayPause{timer: timer},
		awayProvider: platform.NewAwayProvider(),
	}
	// The widget window only exists once it is shown.
	visibility := newPresence(timer, desktopApp != nil, false)

	var trayManager *tray.Manager
	ringWindow := ring.New(fyneApp, ring.Callbacks{
		OnStart: timer.Start,
		OnReset: timer.Reset,
		OnShow: func() {
			visibility.setWidget(true)
			if trayManager != nil {
				trayManager.SetWidgetVisible(true)
			}
		},
		OnHide: func() {
			visibility.setWidget(false)
			if trayManager != nil {
				trayManager.SetWidgetVisible(false)
			}
		},
	})

	flashEngine := flash.New(flash.DefaultConfig(), ringWindow.SetHighlight)
	timer.SetCuePlayer(cueFanout{app.chime, flashEngine})
	timer.SetRenderer(func(display phasetimer.Display) {
		ringWindow.Update(display)
		if trayManager != nil {
			fyne.Do(func() {
				trayManager.SetDisplay(display)
			})
		}
	})

	prefsWindow := preferences.New(fyneApp, settings, storage.Backends, app.saveSettings)
	app.onSettings = func(updated preferences.Settings) {
		fyne.Do(func() {
			prefsWindow.UpdateSettings(updated)
		})
	}

	if desktopApp != nil {
		trayManager = tray.New(desktopApp, tray.Icons{
			Work:  resources.MustIcon(resources.IconWork),
			Break: resources.MustIcon(resources.IconBreak),
			Idle:  resources.MustIcon(resources.IconIdle),
		}, tray.Callbacks{
			OnStart:        timer.Start,
			OnPause:        timer.Pause,
			OnReset:        timer.Reset,
			OnToggleWidget: ringWindow.Toggle,
			OnPreferences:  prefsWindow.Show,
			OnQuit:         fyneApp.Quit,
		})
		trayManager.SetDisplay(timer.Display())
	}

	timer.Restore()
	visibility.setWidget(false)
	if settings.ShowOnStart || trayManager == nil {
		ringWindow.Show()
	}
	app.configureAway(settings)

	guard.SetOnActivate(func() {
		fyne.Do(ringWindow.Show)
	})

	settingsWatcher, err := storage.WatchSettings(filepath.Join(configDir, storage.SettingsFileName), storage.DefaultDebounce,
		app.reloadSettings,
		func(err error) {
			logger.Printf("watch settings: %v", err)
		},
	)
	if err != nil {
		logger.Printf("watch settings: %v", err)
	}

	fyneApp.Lifecycle().SetOnStopped(func() {
		if settingsWatcher != nil {
			settingsWatcher.Stop()
		}
		app.stop()
		flashEngine.Stop()
		timer.Close()
	})

	fyneApp.Run()
}

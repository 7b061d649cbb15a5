package tray

import (
	"fmt"

	"phasering/internal/core/phasetimer"

	"fyne.io/fyne/v2"
)

const menuTitle = "PhaseRing"

// App is the part of desktop.App the manager drives.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart        func()
	OnPause        func()
	OnReset        func()
	OnToggleWidget func()
	OnPreferences  func()
	OnQuit         func()
}

// Icons are swapped to reflect the running phase.
type Icons struct {
	Work  fyne.Resource
	Break fyne.Resource
	Idle  fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	app         App
	icons       Icons
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	startItem   *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	resetItem   *fyne.MenuItem
	widgetItem  *fyne.MenuItem
	prefsItem   *fyne.MenuItem
	quitItem    *fyne.MenuItem
	display     phasetimer.Display
	initialized bool
	icon        fyne.Resource
}

// New creates a tray manager with the provided callbacks.
func New(app App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		icons:     icons,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start", invoke(&manager.callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", invoke(&manager.callbacks.OnPause))
	manager.pauseItem.Disabled = true
	manager.resetItem = fyne.NewMenuItem("Reset", invoke(&manager.callbacks.OnReset))
	manager.widgetItem = fyne.NewMenuItem("Show widget", invoke(&manager.callbacks.OnToggleWidget))
	manager.prefsItem = fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences))
	manager.quitItem = fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit))

	manager.refreshMenu()
	return manager
}

// SetDisplay updates the status line, the enabled actions and the icon.
// It must run on the Fyne goroutine.
func (manager *Manager) SetDisplay(display phasetimer.Display) {
	if manager.initialized && display == manager.display {
		return
	}
	manager.initialized = true
	manager.display = display
	manager.statusItem.Label = "Status: " + StatusText(display)
	manager.startItem.Disabled = display.Running
	manager.pauseItem.Disabled = !display.Running
	manager.refreshMenu()
	manager.setIcon(manager.iconFor(display))
}

// SetWidgetVisible updates the show/hide label.
func (manager *Manager) SetWidgetVisible(visible bool) {
	label := "Show widget"
	if visible {
		label = "Hide widget"
	}
	if manager.widgetItem.Label == label {
		return
	}
	manager.widgetItem.Label = label
	manager.refreshMenu()
}

// StatusText renders the one-line tray status for display.
func StatusText(display phasetimer.Display) string {
	name := "Work"
	if display.Phase == phasetimer.PhaseBreak {
		name = "Break"
	}
	status := fmt.Sprintf("%s %s", name, display.Text)
	if display.Running {
		return status
	}
	if display.Phase == phasetimer.PhaseWork && display.Work >= 1 && display.Break >= 1 {
		return fmt.Sprintf("%s (ready)", status)
	}
	return fmt.Sprintf("%s (paused)", status)
}

func (manager *Manager) iconFor(display phasetimer.Display) fyne.Resource {
	switch {
	case !display.Running:
		return manager.icons.Idle
	case display.Phase == phasetimer.PhaseBreak:
		return manager.icons.Break
	default:
		return manager.icons.Work
	}
}

func (manager *Manager) setIcon(icon fyne.Resource) {
	if icon == nil || icon == manager.icon {
		return
	}
	manager.icon = icon
	if manager.app != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
			manager.statusItem,
			fyne.NewMenuItemSeparator(),
			manager.startItem,
			manager.pauseItem,
			manager.resetItem,
			fyne.NewMenuItemSeparator(),
			manager.widgetItem,
			manager.prefsItem,
			fyne.NewMenuItemSeparator(),
			manager.quitItem,
		))
	}
}

// invoke defers the nil check to tap time so callbacks can be wired late.
func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}

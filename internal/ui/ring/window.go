// Package ring renders the timer widget: two concentric progress rings, the
// remaining time of the active phase and the Start/Reset controls.
package ring

import (
	"image"
	"image/color"
	"sync"

	"phasering/internal/core/phasetimer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	windowTitle  = "PhaseRing"
	windowWidth  = float32(240)
	windowHeight = float32(290)
)

// Callbacks defines widget action handlers.
type Callbacks struct {
	OnStart func()
	OnReset func()
	OnHide  func()
	OnShow  func()
}

// Window manages the widget UI.
type Window struct {
	window      fyne.Window
	workRing    *canvas.Raster
	breakRing   *canvas.Raster
	timeLabel   *canvas.Text
	startButton *widget.Button
	resetButton *widget.Button
	callbacks   Callbacks

	mu          sync.Mutex
	display     phasetimer.Display
	highlighted map[phasetimer.Phase]bool
	visible     bool
}

// New creates the widget window. It starts hidden.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow(windowTitle)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	ring := &Window{
		window:      window,
		callbacks:   callbacks,
		display:     phasetimer.Display{Text: "25:00", Work: 1, Break: 1, Phase: phasetimer.PhaseWork},
		highlighted: make(map[phasetimer.Phase]bool),
	}

	ring.workRing = canvas.NewRaster(ring.workImage)
	ring.breakRing = canvas.NewRaster(ring.breakImage)

	ring.timeLabel = canvas.NewText(ring.display.Text, workColor)
	ring.timeLabel.Alignment = fyne.TextAlignCenter
	ring.timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	ring.timeLabel.TextSize = 28

	ring.resetButton = widget.NewButton("Reset", func() {
		if ring.callbacks.OnReset != nil {
			ring.callbacks.OnReset()
		}
	})
	ring.startButton = widget.NewButton("Start", func() {
		if ring.callbacks.OnStart != nil {
			ring.callbacks.OnStart()
		}
	})
	ring.startButton.Importance = widget.HighImportance

	rings := container.NewStack(ring.workRing, ring.breakRing, container.NewCenter(ring.timeLabel))
	buttons := container.NewHBox(layout.NewSpacer(), ring.resetButton, ring.startButton, layout.NewSpacer())
	window.SetContent(container.NewBorder(nil, buttons, nil, nil, rings))
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.SetFixedSize(true)

	// Closing the widget only hides it; the tray keeps the process alive.
	window.SetCloseIntercept(func() {
		ring.Hide()
	})

	ring.refresh()
	return ring
}

// Update shows display. It is safe to call from any goroutine.
func (ring *Window) Update(display phasetimer.Display) {
	ring.mu.Lock()
	ring.display = display
	ring.mu.Unlock()
	fyne.Do(ring.refresh)
}

// SetHighlight toggles the flash highlight of a phase ring. It is safe to
// call from any goroutine.
func (ring *Window) SetHighlight(phase phasetimer.Phase, on bool) {
	ring.mu.Lock()
	ring.highlighted[phase] = on
	ring.mu.Unlock()
	fyne.Do(ring.refreshRings)
}

// Show displays the widget and resumes the timer's foreground ticking.
func (ring *Window) Show() {
	ring.window.Show()
	ring.window.RequestFocus()
	if ring.setVisible(true) && ring.callbacks.OnShow != nil {
		ring.callbacks.OnShow()
	}
}

// Hide removes the widget from screen.
func (ring *Window) Hide() {
	ring.window.Hide()
	if ring.setVisible(false) && ring.callbacks.OnHide != nil {
		ring.callbacks.OnHide()
	}
}

// Toggle flips widget visibility.
func (ring *Window) Toggle() {
	if ring.Visible() {
		ring.Hide()
		return
	}
	ring.Show()
}

// Visible reports whether the widget is on screen.
func (ring *Window) Visible() bool {
	ring.mu.Lock()
	defer ring.mu.Unlock()
	return ring.visible
}

// setVisible records visibility and reports whether it changed.
func (ring *Window) setVisible(visible bool) bool {
	ring.mu.Lock()
	defer ring.mu.Unlock()
	changed := ring.visible != visible
	ring.visible = visible
	return changed
}

func (ring *Window) refresh() {
	ring.mu.Lock()
	display := ring.display
	ring.mu.Unlock()

	ring.timeLabel.Text = display.Text
	ring.timeLabel.Color = phaseColor(display.Phase)
	ring.timeLabel.Refresh()

	if display.Running {
		ring.startButton.Disable()
	} else {
		ring.startButton.Enable()
	}
	ring.refreshRings()
}

func (ring *Window) refreshRings() {
	ring.workRing.Refresh()
	ring.breakRing.Refresh()
}

func (ring *Window) workImage(width, height int) image.Image {
	ring.mu.Lock()
	fraction, fill := ring.display.Work, ring.fillLocked(phasetimer.PhaseWork)
	ring.mu.Unlock()
	return ringImage(width, height, workBand, fraction, fill)
}

func (ring *Window) breakImage(width, height int) image.Image {
	ring.mu.Lock()
	fraction, fill := ring.display.Break, ring.fillLocked(phasetimer.PhaseBreak)
	ring.mu.Unlock()
	return ringImage(width, height, breakBand, fraction, fill)
}

func (ring *Window) fillLocked(phase phasetimer.Phase) color.Color {
	fill := phaseColor(phase)
	if ring.highlighted[phase] {
		return lighten(fill)
	}
	return fill
}

func phaseColor(phase phasetimer.Phase) color.NRGBA {
	if phase == phasetimer.PhaseBreak {
		return breakColor
	}
	return workColor
}

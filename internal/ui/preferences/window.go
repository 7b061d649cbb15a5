package preferences

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// The volume slider works in whole percent so steps stay exact.
const percent = 100

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	onSave    func(Settings)
	sound     *widget.Check
	volume    *widget.Slider
	awayCheck *widget.Check
	awayAfter *widget.Entry
	backend   *widget.Select
	showStart *widget.Check
}

// New creates a preferences window. backends lists the selectable storage
// backends.
func New(app fyne.App, settings Settings, backends []string, onSave func(Settings)) *Window {
	window := app.NewWindow("PhaseRing Settings")

	sound := widget.NewCheck("Play a chime when a phase ends", nil)
	volume := widget.NewSlider(MinVolume*percent, MaxVolume*percent)
	volume.Step = 5
	sound.OnChanged = func(checked bool) {
		if checked {
			volume.Enable()
		} else {
			volume.Disable()
		}
	}

	awayCheck := widget.NewCheck("Pause work while I am away", nil)
	awayAfter := widget.NewEntry()
	awayAfter.Validator = func(value string) error {
		if _, ok := parsePositiveInt(value); !ok {
			return fmt.Errorf("enter a whole number of minutes")
		}
		return nil
	}

	backend := widget.NewSelect(backends, nil)
	showStart := widget.NewCheck("Show the widget on start", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sound,
		container.NewBorder(nil, nil, widget.NewLabel("Volume"), nil, volume),
		widget.NewLabelWithStyle("Presence", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		awayCheck,
		container.NewHBox(widget.NewLabel("Away after"), awayAfter, widget.NewLabel("min")),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Storage (after restart)"), backend),
		showStart,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(380, 380))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:    window,
		onSave:    onSave,
		sound:     sound,
		volume:    volume,
		awayCheck: awayCheck,
		awayAfter: awayAfter,
		backend:   backend,
		showStart: showStart,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.volume.SetValue(math.Round(clampVolume(settings.Volume) * percent))
	if settings.SoundEnabled {
		prefs.volume.Enable()
	} else {
		prefs.volume.Disable()
	}
	prefs.awayCheck.SetChecked(settings.PauseWhenAway)
	prefs.awayAfter.SetText(formatMinutes(settings.AwayAfter))
	prefs.backend.SetSelected(settings.StorageBackend)
	prefs.showStart.SetChecked(settings.ShowOnStart)
}

func (prefs *Window) handleSave() {
	settings := prefs.collect()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// collect reads the widgets back into Settings. Invalid entries keep the
// previous value.
func (prefs *Window) collect() Settings {
	settings := prefs.settings

	settings.SoundEnabled = prefs.sound.Checked
	settings.Volume = clampVolume(prefs.volume.Value / percent)
	settings.PauseWhenAway = prefs.awayCheck.Checked
	if minutes, ok := parsePositiveInt(prefs.awayAfter.Text); ok {
		settings.AwayAfter = time.Duration(minutes) * time.Minute
	}
	if prefs.backend.Selected != "" {
		settings.StorageBackend = prefs.backend.Selected
	}
	settings.ShowOnStart = prefs.showStart.Checked

	return settings
}

func formatMinutes(value time.Duration) string {
	minutes := int(value / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return strconv.Itoa(minutes)
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

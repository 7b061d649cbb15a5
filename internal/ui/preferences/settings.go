package preferences

import "time"

// Settings defines editable user preferences.
type Settings struct {
	SoundEnabled bool
	Volume       float64

	PauseWhenAway bool
	AwayAfter     time.Duration

	StorageBackend string
	ShowOnStart    bool
}

// Volume bounds accepted from the UI and the settings file.
const (
	MinVolume = 0.0
	MaxVolume = 1.0
)

// DefaultSettings returns default settings for PhaseRing.
func DefaultSettings() Settings {
	return Settings{
		SoundEnabled:   true,
		Volume:         0.6,
		PauseWhenAway:  true,
		AwayAfter:      5 * time.Minute,
		StorageBackend: "file",
		ShowOnStart:    true,
	}
}

// EffectiveVolume returns the playback volume, zero when sound is off.
func (settings Settings) EffectiveVolume() float64 {
	if !settings.SoundEnabled {
		return 0
	}
	return clampVolume(settings.Volume)
}

func clampVolume(volume float64) float64 {
	if volume < MinVolume {
		return MinVolume
	}
	if volume > MaxVolume {
		return MaxVolume
	}
	return volume
}

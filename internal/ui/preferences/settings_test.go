package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveVolume(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, 0.6, settings.EffectiveVolume())

	settings.Volume = 3
	assert.Equal(t, MaxVolume, settings.EffectiveVolume())

	settings.Volume = -1
	assert.Equal(t, MinVolume, settings.EffectiveVolume())

	settings.Volume = 0.6
	settings.SoundEnabled = false
	assert.Zero(t, settings.EffectiveVolume())
}

func TestParsePositiveInt(t *testing.T) {
	tests := map[string]struct {
		value int
		ok    bool
	}{
		"5":    {5, true},
		" 12 ": {12, true},
		"0":    {0, false},
		"-3":   {0, false},
		"1.5":  {0, false},
		"":     {0, false},
	}
	for input, want := range tests {
		value, ok := parsePositiveInt(input)
		assert.Equal(t, want.value, value, input)
		assert.Equal(t, want.ok, ok, input)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "5", formatMinutes(5*time.Minute))
	assert.Equal(t, "1", formatMinutes(10*time.Second))
}

package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLength(t *testing.T) {
	samples := Render([]Note{{Frequency: 440, Duration: 100 * time.Millisecond}, {Duration: 50 * time.Millisecond}}, 1, 1000)
	assert.Len(t, samples, 150)
	for _, sample := range samples[100:] {
		assert.Zero(t, sample)
	}
}

func TestRenderVolumeScalesAmplitude(t *testing.T) {
	notes := []Note{{Frequency: 440, Duration: 200 * time.Millisecond}}

	loud := peak(Render(notes, 1, SampleRate))
	quiet := peak(Render(notes, 0.25, SampleRate))
	silent := peak(Render(notes, 0, SampleRate))

	assert.Greater(t, loud, quiet)
	assert.InDelta(t, float64(loud)/4, float64(quiet), float64(loud)*0.02)
	assert.Zero(t, silent)
	assert.Equal(t, loud, peak(Render(notes, 3, SampleRate)))
}

func TestRenderFadesEdges(t *testing.T) {
	samples := Render([]Note{{Frequency: 440, Duration: 100 * time.Millisecond}}, 1, SampleRate)
	require.NotEmpty(t, samples)
	assert.Zero(t, samples[0])
	assert.Zero(t, samples[len(samples)-1])
}

func TestWriteWAVDecodesBack(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767}
	path := filepath.Join(t.TempDir(), "chime.wav")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(file, samples, 8000))
	require.NoError(t, file.Close())

	file, err = os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	decoder := wav.NewDecoder(file)
	require.True(t, decoder.IsValidFile())

	buffer, err := decoder.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, uint32(8000), decoder.SampleRate)
	assert.Equal(t, uint16(1), decoder.NumChans)
	assert.Equal(t, uint16(16), decoder.BitDepth)
	assert.Equal(t, []int{0, 1000, -1000, 32767}, buffer.Data)
}

func TestChimesAreShort(t *testing.T) {
	assert.Less(t, Duration(WorkDoneChime), 2*time.Second)
	assert.Less(t, Duration(BreakDoneChime), 2*time.Second)
	assert.NotEqual(t, WorkDoneChime, BreakDoneChime)
}

func peak(samples []int16) int16 {
	var highest int16
	for _, sample := range samples {
		if sample > highest {
			highest = sample
		}
	}
	return highest
}

// Package audio synthesizes the short chimes played at phase transitions.
package audio

import (
	"fmt"
	"io"
	"math"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleRate is the rate every chime is rendered at.
const SampleRate = 22050

// Chimes are written as mono 16-bit PCM.
const (
	channels  = 1
	bitDepth  = 16
	pcmFormat = 1
)

// fade is applied at both ends of each note to avoid clicks.
const fade = 8 * time.Millisecond

// Note is a single sine tone. A zero frequency is silence.
type Note struct {
	Frequency float64
	Duration  time.Duration
}

// Chimes for the two phase transitions.
var (
	WorkDoneChime = []Note{
		{Frequency: 880, Duration: 180 * time.Millisecond},
		{Frequency: 0, Duration: 60 * time.Millisecond},
		{Frequency: 880, Duration: 180 * time.Millisecond},
		{Frequency: 0, Duration: 60 * time.Millisecond},
		{Frequency: 659.25, Duration: 420 * time.Millisecond},
	}
	BreakDoneChime = []Note{
		{Frequency: 523.25, Duration: 160 * time.Millisecond},
		{Frequency: 659.25, Duration: 160 * time.Millisecond},
		{Frequency: 783.99, Duration: 360 * time.Millisecond},
	}
)

// Render produces 16-bit mono samples for notes at the given volume (0..1).
func Render(notes []Note, volume float64, sampleRate int) []int16 {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	amplitude := volume * math.MaxInt16 * 0.8

	var samples []int16
	for _, note := range notes {
		count := samplesFor(note.Duration, sampleRate)
		fadeCount := samplesFor(fade, sampleRate)
		if fadeCount*2 > count {
			fadeCount = count / 2
		}
		for i := 0; i < count; i++ {
			if note.Frequency <= 0 {
				samples = append(samples, 0)
				continue
			}
			envelope := 1.0
			if i < fadeCount {
				envelope = float64(i) / float64(fadeCount)
			} else if count-i <= fadeCount {
				envelope = float64(count-i-1) / float64(fadeCount)
			}
			phase := 2 * math.Pi * note.Frequency * float64(i) / float64(sampleRate)
			samples = append(samples, int16(math.Round(amplitude*envelope*math.Sin(phase))))
		}
	}
	return samples
}

// WriteWAV encodes mono 16-bit PCM samples as a WAVE file. The encoder
// patches the RIFF sizes on close, so w must be seekable.
func WriteWAV(w io.WriteSeeker, samples []int16, sampleRate int) error {
	buffer := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bitDepth,
	}
	for i, sample := range samples {
		buffer.Data[i] = int(sample)
	}

	encoder := wav.NewEncoder(w, sampleRate, bitDepth, channels, pcmFormat)
	if err := encoder.Write(buffer); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finish wav: %w", err)
	}
	return nil
}

func samplesFor(duration time.Duration, sampleRate int) int {
	return int(int64(duration) * int64(sampleRate) / int64(time.Second))
}

// Duration returns the total playing time of notes.
func Duration(notes []Note) time.Duration {
	var total time.Duration
	for _, note := range notes {
		total += note.Duration
	}
	return total
}

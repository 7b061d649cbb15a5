package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"phasering/internal/audio"
	"phasering/internal/core/phasetimer"
)

// ErrNoPlayer indicates no audio player command was found on this system.
var ErrNoPlayer = errors.New("no audio player available")

// chimeFilePlaceholder marks where the WAV path goes in a player command.
// Commands without it get the path appended.
const chimeFilePlaceholder = "{file}"

// ChimePlayer renders cue tones to WAV files and hands them to the OS
// audio player without waiting for playback to finish.
type ChimePlayer struct {
	mu      sync.Mutex
	volume  float64
	command []string
	dir     string
	start   func(*exec.Cmd) error
	written map[string]string
}

// NewChimePlayer returns a player for the current OS. Volume 0 mutes it.
func NewChimePlayer(volume float64) *ChimePlayer {
	return newChimePlayer(volume, lookPlayer(), os.TempDir(), startDetached)
}

func newChimePlayer(volume float64, command []string, dir string, start func(*exec.Cmd) error) *ChimePlayer {
	return &ChimePlayer{
		volume:  volume,
		command: command,
		dir:     dir,
		start:   start,
		written: make(map[string]string),
	}
}

// SetVolume changes the volume used for subsequent cues.
func (player *ChimePlayer) SetVolume(volume float64) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.volume = volume
}

// PlayCue implements phasetimer.CuePlayer.
func (player *ChimePlayer) PlayCue(cue phasetimer.Cue) error {
	player.mu.Lock()
	defer player.mu.Unlock()

	if player.volume <= 0 {
		return nil
	}
	if len(player.command) == 0 {
		return ErrNoPlayer
	}

	path, err := player.chimeFileLocked(cue)
	if err != nil {
		return err
	}

	if err := player.start(exec.Command(player.command[0], playerArgs(player.command[1:], path)...)); err != nil {
		return fmt.Errorf("play %s: %w", cue, err)
	}
	return nil
}

func (player *ChimePlayer) chimeFileLocked(cue phasetimer.Cue) (string, error) {
	notes := audio.WorkDoneChime
	if cue == phasetimer.CueBreakDone {
		notes = audio.BreakDoneChime
	}

	name := fmt.Sprintf("phasering-%s-%03d.wav", cue, int(player.volume*100))
	if path, ok := player.written[name]; ok {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	path := filepath.Join(player.dir, name)
	if err := writeChime(path, audio.Render(notes, player.volume, audio.SampleRate)); err != nil {
		return "", err
	}
	player.written[name] = path
	return path, nil
}

func writeChime(path string, samples []int16) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write chime: %w", err)
	}
	if err := audio.WriteWAV(file, samples, audio.SampleRate); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("write chime: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("write chime: %w", err)
	}
	return nil
}

func playerArgs(template []string, path string) []string {
	args := make([]string, 0, len(template)+1)
	substituted := false
	for _, arg := range template {
		if strings.Contains(arg, chimeFilePlaceholder) {
			arg = strings.ReplaceAll(arg, chimeFilePlaceholder, path)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, path)
	}
	return args
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

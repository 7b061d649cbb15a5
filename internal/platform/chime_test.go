package platform

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"phasering/internal/core/phasetimer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startRecorder struct {
	cmds []*exec.Cmd
	err  error
}

func (recorder *startRecorder) start(cmd *exec.Cmd) error {
	recorder.cmds = append(recorder.cmds, cmd)
	return recorder.err
}

func TestChimePlayerWritesWavAndStartsPlayer(t *testing.T) {
	dir := t.TempDir()
	recorder := &startRecorder{}
	player := newChimePlayer(0.5, []string{"/usr/bin/paplay"}, dir, recorder.start)

	require.NoError(t, player.PlayCue(phasetimer.CueWorkDone))

	require.Len(t, recorder.cmds, 1)
	args := recorder.cmds[0].Args
	require.Len(t, args, 2)
	assert.Equal(t, "/usr/bin/paplay", args[0])
	assert.Equal(t, filepath.Join(dir, "phasering-work_done-050.wav"), args[1])

	data, err := os.ReadFile(args[1])
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
}

func TestChimePlayerUsesDistinctFilesPerCue(t *testing.T) {
	dir := t.TempDir()
	recorder := &startRecorder{}
	player := newChimePlayer(1, []string{"play"}, dir, recorder.start)

	require.NoError(t, player.PlayCue(phasetimer.CueWorkDone))
	require.NoError(t, player.PlayCue(phasetimer.CueBreakDone))
	require.NoError(t, player.PlayCue(phasetimer.CueBreakDone))

	require.Len(t, recorder.cmds, 3)
	assert.NotEqual(t, recorder.cmds[0].Args[1], recorder.cmds[1].Args[1])
	assert.Equal(t, recorder.cmds[1].Args[1], recorder.cmds[2].Args[1])
}

func TestChimePlayerSubstitutesPlaceholder(t *testing.T) {
	recorder := &startRecorder{}
	player := newChimePlayer(1, []string{"powershell", "-Command", "play '" + chimeFilePlaceholder + "'"}, t.TempDir(), recorder.start)

	require.NoError(t, player.PlayCue(phasetimer.CueBreakDone))

	args := recorder.cmds[0].Args
	require.Len(t, args, 3)
	assert.Contains(t, args[2], "phasering-break_done-100.wav'")
	assert.NotContains(t, args[2], chimeFilePlaceholder)
}

func TestChimePlayerMutedDoesNothing(t *testing.T) {
	recorder := &startRecorder{}
	player := newChimePlayer(0, nil, t.TempDir(), recorder.start)

	assert.NoError(t, player.PlayCue(phasetimer.CueWorkDone))
	assert.Empty(t, recorder.cmds)
}

func TestChimePlayerWithoutBackend(t *testing.T) {
	player := newChimePlayer(1, nil, t.TempDir(), (&startRecorder{}).start)

	assert.ErrorIs(t, player.PlayCue(phasetimer.CueWorkDone), ErrNoPlayer)
}

func TestChimePlayerStartFailure(t *testing.T) {
	recorder := &startRecorder{err: errors.New("exec format error")}
	player := newChimePlayer(1, []string{"broken"}, t.TempDir(), recorder.start)

	err := player.PlayCue(phasetimer.CueWorkDone)
	assert.ErrorContains(t, err, "exec format error")
}

func TestChimePlayerSetVolumeChangesFile(t *testing.T) {
	recorder := &startRecorder{}
	player := newChimePlayer(1, []string{"play"}, t.TempDir(), recorder.start)
	require.NoError(t, player.PlayCue(phasetimer.CueWorkDone))

	player.SetVolume(0.2)
	require.NoError(t, player.PlayCue(phasetimer.CueWorkDone))

	assert.Contains(t, recorder.cmds[1].Args[1], "-020.wav")
}

package storage

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSettingsReportsDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("volume: 0.5\n"), 0o644))

	var changes atomic.Int32
	watcher, err := WatchSettings(path, 50*time.Millisecond, func() { changes.Add(1) }, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("volume: 0.4\n"), 0o644))
	}

	assert.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), changes.Load(), "a burst of writes is one change")
}

func TestWatchSettingsIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SettingsFileName)

	var changes atomic.Int32
	watcher, err := WatchSettings(path, 20*time.Millisecond, func() { changes.Add(1) }, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte("{}"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, changes.Load())

	require.NoError(t, os.WriteFile(path, []byte("show_on_start: false\n"), 0o644))
	assert.Eventually(t, func() bool { return changes.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatchSettingsMissingDirectory(t *testing.T) {
	_, err := WatchSettings(filepath.Join(t.TempDir(), "absent", SettingsFileName), 0, nil, nil)
	assert.Error(t, err)
}

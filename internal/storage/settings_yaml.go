package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"phasering/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the YAML file holding user preferences.
const SettingsFileName = "settings.yaml"

type yamlSettings struct {
	SoundEnabled     *bool    `yaml:"sound_enabled"`
	Volume           *float64 `yaml:"volume"`
	PauseWhenAway    *bool    `yaml:"pause_when_away"`
	AwayAfterMinutes int      `yaml:"away_after_minutes"`
	StorageBackend   string   `yaml:"storage_backend"`
	ShowOnStart      *bool    `yaml:"show_on_start"`
}

// ConfigDir resolves the per-user directory PhaseRing keeps its files in.
func ConfigDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, appName), nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		return "", fmt.Errorf("resolve user config dir: %w", homeErr)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// LoadSettings reads user preferences from dir/settings.yaml.
// If the file does not exist, default settings are returned.
func LoadSettings(dir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(filepath.Join(dir, SettingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to dir/settings.yaml.
func SaveSettings(dir string, settings preferences.Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		SoundEnabled:     &settings.SoundEnabled,
		Volume:           &settings.Volume,
		PauseWhenAway:    &settings.PauseWhenAway,
		AwayAfterMinutes: int(settings.AwayAfter / time.Minute),
		StorageBackend:   NormalizeBackend(settings.StorageBackend),
		ShowOnStart:      &settings.ShowOnStart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.Volume != nil && *fileData.Volume >= preferences.MinVolume && *fileData.Volume <= preferences.MaxVolume {
		settings.Volume = *fileData.Volume
	}
	if fileData.PauseWhenAway != nil {
		settings.PauseWhenAway = *fileData.PauseWhenAway
	}
	if fileData.AwayAfterMinutes > 0 {
		settings.AwayAfter = time.Duration(fileData.AwayAfterMinutes) * time.Minute
	}
	if fileData.StorageBackend != "" {
		settings.StorageBackend = NormalizeBackend(fileData.StorageBackend)
	}
	if fileData.ShowOnStart != nil {
		settings.ShowOnStart = *fileData.ShowOnStart
	}
}

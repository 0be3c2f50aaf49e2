// ABOUTME: Persisted audio settings
// ABOUTME: Loads and saves volumes and the preferred output device as JSON
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/sound"
)

// Settings are the user's audio preferences
type Settings struct {
	EffectsVolume float64 `json:"effects_volume"`
	MusicVolume   float64 `json:"music_volume"`
	Device        string  `json:"device,omitempty"`
}

// Default returns full volume on the system default device
func Default() Settings {
	return Settings{EffectsVolume: 1, MusicVolume: 1}
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to path, creating its directory
func (s Settings) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

// Apply copies the settings into a sound configuration
func (s Settings) Apply(cfg *sound.Config) {
	cfg.EffectsVolume = s.EffectsVolume
	cfg.MusicVolume = s.MusicVolume
	cfg.PreferredDevice = s.Device
}

// Capture reads the current settings back from a running system
func Capture(sys *sound.System) Settings {
	return Settings{
		EffectsVolume: sys.Pool().Volume(),
		MusicVolume:   sys.Music().Volume(),
		Device:        sys.Devices().Current().ID,
	}
}

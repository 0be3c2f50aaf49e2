// ABOUTME: Tests for persisted audio settings
// ABOUTME: Tests defaults, save and load, and applying to a sound config
package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/output"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/sound"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "audio.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != Default() {
		t.Errorf("expected defaults, got %+v", s)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "audio.json")
	want := Settings{EffectsVolume: 0.25, MusicVolume: 0.8, Device: "hw:1"}

	if err := want.Save(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.json")
	if err := os.WriteFile(path, []byte(`{"music_volume": 0.5}`), 0o644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.EffectsVolume != 1 || s.MusicVolume != 0.5 {
		t.Errorf("expected effects 1 music 0.5, got %+v", s)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	s, err := Load(path)
	if err == nil {
		t.Error("expected parse error")
	}
	if s != Default() {
		t.Errorf("expected defaults on error, got %+v", s)
	}
}

func TestApplyAndCapture(t *testing.T) {
	cfg := sound.DefaultConfig()
	cfg.SampleRate = 1000
	Settings{EffectsVolume: 0.3, MusicVolume: 0.6, Device: "b"}.Apply(&cfg)

	out := output.NewNull(output.Device{ID: "a", Default: true}, output.Device{ID: "b"})
	sys, err := sound.New(cfg, out, nil)
	if err != nil {
		t.Fatalf("failed to create system: %v", err)
	}

	got := Capture(sys)
	want := Settings{EffectsVolume: 0.3, MusicVolume: 0.6, Device: "b"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

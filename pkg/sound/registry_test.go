// ABOUTME: Tests for the sound and song registry
// ABOUTME: Tests fallback substitution, directory loading and freeing
package sound

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
)

func writeWAV(t *testing.T, path string, frames int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create wav: %v", err)
	}
	defer f.Close()

	data := make([]int, frames)
	for i := range data {
		data[i] = 1000
	}

	enc := wav.NewEncoder(f, testRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: testRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize wav: %v", err)
	}
}

func TestRegistryHoldsFallback(t *testing.T) {
	reg := NewRegistry(testRate)

	s, ok := reg.Sound(audio.FallbackName)
	if !ok {
		t.Fatal("expected fallback to be registered")
	}
	if s != reg.Fallback() {
		t.Error("expected registered fallback to be the built-in tone")
	}
	if s.Frames() == 0 {
		t.Error("expected fallback to hold samples")
	}
}

func TestFreeSoundKeepsFallback(t *testing.T) {
	reg := testRegistry(t)
	buf := captureLog(t)

	reg.FreeSound(audio.FallbackName)
	reg.FreeSound("click")

	if _, ok := reg.Sound(audio.FallbackName); !ok {
		t.Error("expected fallback to survive FreeSound")
	}
	if _, ok := reg.Sound("click"); ok {
		t.Error("expected click to be freed")
	}
	if n := countWarnings(buf); n != 1 {
		t.Errorf("expected 1 warning, got %d", n)
	}

	reg.FreeSong("theme")
	if _, ok := reg.Song("theme"); ok {
		t.Error("expected theme to be freed")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := testRegistry(t)

	sounds := reg.SoundNames()
	want := []string{"beep", "click", "explosion"}
	if len(sounds) != len(want) {
		t.Fatalf("expected %v, got %v", want, sounds)
	}
	for i := range want {
		if sounds[i] != want[i] {
			t.Errorf("expected %v, got %v", want, sounds)
			break
		}
	}

	songs := reg.SongNames()
	if len(songs) != 2 || songs[0] != "ambient" || songs[1] != "theme" {
		t.Errorf("expected [ambient theme], got %v", songs)
	}
}

func TestLoadSoundMissingFileUsesFallback(t *testing.T) {
	reg := NewRegistry(testRate)
	buf := captureLog(t)

	s := reg.LoadSound(filepath.Join(t.TempDir(), "door.wav"))

	if s.Name != "door" {
		t.Errorf("expected name door, got %s", s.Name)
	}
	if s.Frames() != reg.Fallback().Frames() {
		t.Errorf("expected fallback data, got %d frames", s.Frames())
	}
	if got, ok := reg.Sound("door"); !ok || got != s {
		t.Error("expected substitute to be registered under door")
	}
	if reg.Fallback().Name != audio.FallbackName {
		t.Errorf("expected fallback name to be untouched, got %s", reg.Fallback().Name)
	}
	if n := countWarnings(buf); n != 1 {
		t.Errorf("expected 1 warning, got %d", n)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "step.wav"), 300)
	writeWAV(t, filepath.Join(dir, "jump.wav"), 500)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not audio"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.wav"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	reg := NewRegistry(testRate)
	n, err := reg.LoadDir(dir)
	if err != nil {
		t.Fatalf("failed to load dir: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 sounds loaded, got %d", n)
	}

	tests := []struct {
		name   string
		frames int
	}{
		{"step", 300},
		{"jump", 500},
	}
	for _, tt := range tests {
		s, ok := reg.Sound(tt.name)
		if !ok {
			t.Errorf("expected %s to be registered", tt.name)
			continue
		}
		if s.Frames() != tt.frames {
			t.Errorf("expected %s to have %d frames, got %d", tt.name, tt.frames, s.Frames())
		}
		if s.Format.SampleRate != testRate {
			t.Errorf("expected sample rate %d, got %d", testRate, s.Format.SampleRate)
		}
	}
}

func TestLoadDirMissing(t *testing.T) {
	reg := NewRegistry(testRate)
	if _, err := reg.LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadSong(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "intro.wav"), 200)
	writeWAV(t, filepath.Join(dir, "body.wav"), 400)
	captureLog(t)

	reg := NewRegistry(testRate)

	song := reg.LoadSong("boss", filepath.Join(dir, "intro.wav"), filepath.Join(dir, "body.wav"))
	if !song.HasIntro() || song.Intro.Frames() != 200 || song.Body.Frames() != 400 {
		t.Errorf("expected 200 frame intro and 400 frame body, got %+v", song)
	}

	song = reg.LoadSong("field", filepath.Join(dir, "missing.wav"), filepath.Join(dir, "body.wav"))
	if song.HasIntro() {
		t.Error("expected missing intro to be dropped")
	}

	song = reg.LoadSong("void", "", filepath.Join(dir, "missing.wav"))
	if song.Body.Frames() != reg.Fallback().Frames() {
		t.Error("expected missing body to use fallback data")
	}
	if _, ok := reg.Song("void"); !ok {
		t.Error("expected song to be registered")
	}
}

func TestLoadSongDir(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "boss_intro.wav"), 100)
	writeWAV(t, filepath.Join(dir, "boss.wav"), 300)
	writeWAV(t, filepath.Join(dir, "field.wav"), 200)
	writeWAV(t, filepath.Join(dir, "orphan_intro.wav"), 50)
	buf := captureLog(t)

	reg := NewRegistry(testRate)
	n, err := reg.LoadSongDir(dir)
	if err != nil {
		t.Fatalf("failed to load music: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 songs, got %d", n)
	}

	boss, ok := reg.Song("boss")
	if !ok || !boss.HasIntro() || boss.Intro.Frames() != 100 || boss.Body.Frames() != 300 {
		t.Errorf("expected boss with 100 frame intro and 300 frame body, got %+v", boss)
	}
	field, ok := reg.Song("field")
	if !ok || field.HasIntro() {
		t.Errorf("expected field without intro, got %+v", field)
	}
	if _, ok := reg.Song("orphan"); ok {
		t.Error("expected intro without body to be skipped")
	}
	if n := countWarnings(buf); n != 1 {
		t.Errorf("expected 1 warning, got %d", n)
	}
}

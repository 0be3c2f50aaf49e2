// ABOUTME: Tests for decoder selection and file loading
// ABOUTME: Tests extension lookup, missing files and WAV round trips
package decode

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext     string
		wantErr bool
	}{
		{".wav", false},
		{".WAV", false},
		{".mp3", false},
		{".ogg", false},
		{".flac", false},
		{".opus", false},
		{".pcm", false},
		{".mid", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			dec, err := ForExtension(tt.ext)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupported) {
					t.Errorf("expected ErrUnsupported, got %v", err)
				}
				return
			}
			if err != nil || dec == nil {
				t.Errorf("expected decoder, got %v", err)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.wav"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadFileWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jump.wav")
	writeWAV(t, path, 22050, 1, []int{0, 16384, -16384, 8192})

	snd, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load wav: %v", err)
	}

	if snd.Name != "jump" {
		t.Errorf("expected name jump, got %q", snd.Name)
	}
	if snd.Format.SampleRate != 22050 {
		t.Errorf("expected sample rate 22050, got %d", snd.Format.SampleRate)
	}
	if !snd.Mono() {
		t.Error("expected mono sound")
	}
	if snd.Frames() != 4 {
		t.Errorf("expected 4 frames, got %d", snd.Frames())
	}
}

func TestLoadFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("not a wav file"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected decode error for corrupt file")
	}
}

func TestSupported(t *testing.T) {
	if !Supported("music/theme.ogg") {
		t.Error("expected .ogg to be supported")
	}
	if Supported("notes.txt") {
		t.Error("expected .txt to be unsupported")
	}
}

func TestOpusChannels(t *testing.T) {
	head := append([]byte("OggS....OpusHead"), 1, 2, 0, 0)
	channels, err := opusChannels(head)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channels != 2 {
		t.Errorf("expected 2 channels, got %d", channels)
	}

	if _, err := opusChannels([]byte("OggS")); err == nil {
		t.Error("expected error without OpusHead")
	}
}

func TestInterleavedWide(t *testing.T) {
	frames := interleaved([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, 3)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1] != [2]float64{0.4, 0.5} {
		t.Errorf("expected front pair {0.4 0.5}, got %v", frames[1])
	}
}

func writeWAV(t *testing.T, path string, rate, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
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

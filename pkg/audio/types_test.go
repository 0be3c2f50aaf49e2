// ABOUTME: Tests for audio types
// ABOUTME: Tests sound construction, vectors and sample conversion functions
package audio

import (
	"errors"
	"math"
	"testing"
)

func TestNewSound(t *testing.T) {
	frames := make([][2]float64, 100)
	s, err := NewSound("click", Format{SampleRate: 44100, Channels: 2}, frames)
	if err != nil {
		t.Fatalf("failed to create sound: %v", err)
	}

	if s.Frames() != 100 {
		t.Errorf("expected 100 frames, got %d", s.Frames())
	}
	if s.Mono() {
		t.Error("expected stereo sound")
	}
}

func TestNewSoundInvalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		frames int
		want   error
	}{
		{"no channels", Format{SampleRate: 44100, Channels: 0}, 10, ErrInvalidFormat},
		{"surround", Format{SampleRate: 44100, Channels: 6}, 10, ErrInvalidFormat},
		{"zero rate", Format{SampleRate: 0, Channels: 1}, 10, ErrInvalidFormat},
		{"empty", Format{SampleRate: 44100, Channels: 1}, 0, ErrEmptySound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSound("bad", tt.format, make([][2]float64, tt.frames))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSoundStreamerRoundTrip(t *testing.T) {
	frames := [][2]float64{{0.5, 0.5}, {-0.25, -0.25}, {0, 0}}
	s, err := NewSound("ramp", Format{SampleRate: 8000, Channels: 1}, frames)
	if err != nil {
		t.Fatalf("failed to create sound: %v", err)
	}

	out := make([][2]float64, 3)
	n, _ := s.Streamer(0, s.Frames()).Stream(out)
	if n != 3 {
		t.Fatalf("expected 3 frames streamed, got %d", n)
	}
	for i := range frames {
		if math.Abs(out[i][0]-frames[i][0]) > 1.0/16384 {
			t.Errorf("frame %d: expected %f, got %f", i, frames[i][0], out[i][0])
		}
	}
}

func TestNewSongRequiresBody(t *testing.T) {
	if _, err := NewSong("empty", nil, nil); err == nil {
		t.Error("expected error for song without body")
	}

	body := Beep(22050)
	song, err := NewSong("theme", nil, body)
	if err != nil {
		t.Fatalf("failed to create song: %v", err)
	}
	if song.HasIntro() {
		t.Error("expected song without intro")
	}
}

func TestBeep(t *testing.T) {
	s := Beep(48000)
	if s.Name != FallbackName {
		t.Errorf("expected name %q, got %q", FallbackName, s.Name)
	}
	if !s.Mono() {
		t.Error("expected mono fallback tone")
	}
	if s.Frames() == 0 {
		t.Error("expected fallback tone to have frames")
	}
}

func TestVec3(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 3}

	if d := b.Sub(a); d != (Vec3{3, 4, 0}) {
		t.Errorf("expected {3 4 0}, got %v", d)
	}
	if l := b.Sub(a).Length(); l != 5 {
		t.Errorf("expected length 5, got %f", l)
	}
	if dot := a.Dot(b); dot != 25 {
		t.Errorf("expected dot 25, got %f", dot)
	}
	if s := a.Scale(2).Add(a); s != (Vec3{3, 6, 9}) {
		t.Errorf("expected {3 6 9}, got %v", s)
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int16
	}{
		{"zero", 0, 0},
		{"half", 0.5, 16384},
		{"negative", -0.5, -16384},
		{"max", 1, 32767},
		{"clipped high", 2, 32767},
		{"clipped low", -2, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFromInt16(t *testing.T) {
	if v := SampleFromInt16(-32768); v != -1 {
		t.Errorf("expected -1, got %f", v)
	}
	if v := SampleFromInt16(16384); v != 0.5 {
		t.Errorf("expected 0.5, got %f", v)
	}
}

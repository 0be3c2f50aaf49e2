// ABOUTME: Audio type definitions
// ABOUTME: Defines formats, decoded sounds, songs and 3D vectors
package audio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

// FallbackName is the registry name of the built-in fallback sound
const FallbackName = "beep"

// Precision is the byte depth decoded sounds are stored at
const Precision = 2

var (
	// ErrInvalidFormat is returned for unsupported channel counts or sample rates
	ErrInvalidFormat = errors.New("invalid audio format")
	// ErrEmptySound is returned when a sound has no frames
	ErrEmptySound = errors.New("sound has no frames")
)

// Format describes the layout of decoded PCM data
type Format struct {
	SampleRate int
	Channels   int
}

// Beep converts the format to the beep equivalent
func (f Format) Beep() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(f.SampleRate),
		NumChannels: f.Channels,
		Precision:   Precision,
	}
}

// Validate checks that the format can be played
func (f Format) Validate() error {
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, f.Channels)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}
	return nil
}

// Sound is an immutable decoded PCM buffer
type Sound struct {
	Name       string
	Format     Format
	// Substitute marks fallback data registered in place of an asset
	// that failed to load. It is never looped.
	Substitute bool
	data       *beep.Buffer
}

// NewSound builds a sound from stereo frames. Mono sounds keep the left channel.
func NewSound(name string, format Format, frames [][2]float64) (*Sound, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySound, name)
	}

	if format.Channels == 1 {
		mono := make([][2]float64, len(frames))
		for i, f := range frames {
			mono[i] = [2]float64{f[0], f[0]}
		}
		frames = mono
	}

	buf := beep.NewBuffer(format.Beep())
	pos := 0
	buf.Append(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(frames) {
			return 0, false
		}
		n := copy(samples, frames[pos:])
		pos += n
		return n, true
	}))

	return &Sound{Name: name, Format: format, data: buf}, nil
}

// Frames returns the length of the sound in sample frames
func (s *Sound) Frames() int {
	return s.data.Len()
}

// Duration returns the playback length at the native sample rate
func (s *Sound) Duration() time.Duration {
	return beep.SampleRate(s.Format.SampleRate).D(s.Frames())
}

// Mono reports whether the sound is single channel
func (s *Sound) Mono() bool {
	return s.Format.Channels == 1
}

// Streamer returns a seekable streamer over frames [from, to)
func (s *Sound) Streamer(from, to int) beep.StreamSeeker {
	return s.data.Streamer(from, to)
}

// Song pairs an optional intro with a body that loops
type Song struct {
	Name  string
	Intro *Sound
	Body  *Sound
}

// NewSong creates a song. intro may be nil.
func NewSong(name string, intro, body *Sound) (*Song, error) {
	if body == nil {
		return nil, fmt.Errorf("song %s has no body", name)
	}
	return &Song{Name: name, Intro: intro, Body: body}, nil
}

// HasIntro reports whether the song starts with an intro section
func (s *Song) HasIntro() bool {
	return s.Intro != nil
}

// Beep synthesizes the built-in fallback tone
func Beep(sampleRate int) *Sound {
	const (
		frequency = 880.0
		length    = 150 * time.Millisecond
		amplitude = 0.5
	)

	n := beep.SampleRate(sampleRate).N(length)
	frames := make([][2]float64, n)
	for i := range frames {
		t := float64(i) / float64(sampleRate)
		envelope := 1 - float64(i)/float64(n)
		v := math.Sin(2*math.Pi*frequency*t) * amplitude * envelope
		frames[i] = [2]float64{v, v}
	}

	s, err := NewSound(FallbackName, Format{SampleRate: sampleRate, Channels: 1}, frames)
	if err != nil {
		panic(fmt.Sprintf("failed to build fallback tone: %v", err))
	}
	return s
}

// Vec3 is a point or direction in world space
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * k
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

// Dot returns the dot product of v and o
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the euclidean length of v
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// SampleFromInt16 converts a 16-bit sample to [-1, 1]
func SampleFromInt16(sample int16) float64 {
	return float64(sample) / 32768.0
}

// SampleToInt16 converts a [-1, 1] sample to 16-bit, clipping out of range values
func SampleToInt16(sample float64) int16 {
	sample = Clamp(sample)
	if sample >= 1 {
		return math.MaxInt16
	}
	return int16(sample * 32768.0)
}

// Clamp limits a sample to [-1, 1]
func Clamp(sample float64) float64 {
	if sample > 1 {
		return 1
	}
	if sample < -1 {
		return -1
	}
	return sample
}

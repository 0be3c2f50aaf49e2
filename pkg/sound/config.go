// ABOUTME: Sound system configuration
// ABOUTME: Defines Config, its defaults and the device error policy
package sound

import "log"

const (
	// DefaultSampleRate is the mixing rate of new contexts
	DefaultSampleRate = 44100
	// DefaultIntroHandoffBuffers is the processed buffer count that ends an intro
	DefaultIntroHandoffBuffers = 2
)

// ErrorPolicy decides what happens when the audio API reports an error
type ErrorPolicy int

const (
	// WarnOnError logs device errors as warnings and keeps running
	WarnOnError ErrorPolicy = iota
	// FatalOnError logs device errors and terminates through Config.Fatalf
	FatalOnError
)

// Config holds sound system configuration. Zero SampleRate and
// IntroHandoffBuffers take their defaults, but the volumes are used as
// given: a zero EffectsVolume or MusicVolume starts that channel muted.
// Start from DefaultConfig for full volume.
type Config struct {
	SampleRate          int
	PreferredDevice     string
	EffectsVolume       float64
	MusicVolume         float64
	IntroHandoffBuffers int
	ErrorPolicy         ErrorPolicy

	// Fatalf terminates the process; defaults to log.Fatalf
	Fatalf func(format string, args ...any)
}

// DefaultConfig returns a configuration at full volume on the default device
func DefaultConfig() Config {
	return Config{
		SampleRate:          DefaultSampleRate,
		EffectsVolume:       1,
		MusicVolume:         1,
		IntroHandoffBuffers: DefaultIntroHandoffBuffers,
		ErrorPolicy:         WarnOnError,
	}
}

// withDefaults fills zero fields that have no meaningful zero value
func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.IntroHandoffBuffers <= 0 {
		c.IntroHandoffBuffers = DefaultIntroHandoffBuffers
	}
	if c.Fatalf == nil {
		c.Fatalf = log.Fatalf
	}
	return c
}

// ABOUTME: Sound system errors and device error checking
// ABOUTME: Defines sentinel errors and applies the configured error policy
package sound

import (
	"errors"
	"log"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/al"
)

var (
	// ErrNoDevices is returned when no output device is available
	ErrNoDevices = errors.New("no audio output devices found")
	// ErrUnknownDevice is returned when switching to a device id that is not listed
	ErrUnknownDevice = errors.New("unknown audio output device")
	// ErrContextCreate is returned when a context cannot be opened on a device
	ErrContextCreate = errors.New("failed to create audio context")
)

// checker polls the audio API for errors after mutating calls
type checker struct {
	policy ErrorPolicy
	fatalf func(format string, args ...any)
}

// check reports whether ctx raised no error since the last check
func (c *checker) check(ctx *al.Context, op string) bool {
	e := ctx.GetError()
	if e == al.NoError {
		return true
	}

	if c.policy == FatalOnError {
		c.fatalf("Audio device error during %s: %v", op, e)
		return false
	}
	log.Printf("Warning: audio device error during %s: %v", op, e)
	return false
}

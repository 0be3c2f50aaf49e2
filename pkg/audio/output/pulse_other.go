//go:build !linux

// ABOUTME: PulseAudio stub for platforms without PulseAudio
// ABOUTME: Provides compile-time placeholder outside Linux
package output

import (
	"fmt"

	"github.com/gopxl/beep/v2"
)

// Pulse output implementation (stub)
type Pulse struct{}

// NewPulse creates a new Pulse output
func NewPulse() Output {
	return &Pulse{}
}

// Name returns the backend name
func (p *Pulse) Name() string {
	return "pulse"
}

// Devices lists nothing
func (p *Pulse) Devices() ([]Device, error) {
	return nil, fmt.Errorf("PulseAudio is only supported on linux")
}

// Open always fails
func (p *Pulse) Open(dev Device, sampleRate int, src beep.Streamer) error {
	return fmt.Errorf("PulseAudio is only supported on linux")
}

// Close releases nothing
func (p *Pulse) Close() error {
	return ErrNotOpen
}

// Shutdown releases nothing
func (p *Pulse) Shutdown() error {
	return nil
}

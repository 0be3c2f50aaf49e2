//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"

	"github.com/gopxl/beep/v2"
)

// PortAudio output implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{}
}

// Name returns the backend name
func (p *PortAudio) Name() string {
	return "portaudio"
}

// Devices lists nothing
func (p *PortAudio) Devices() ([]Device, error) {
	return nil, fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Open always fails
func (p *PortAudio) Open(dev Device, sampleRate int, src beep.Streamer) error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Close releases nothing
func (p *PortAudio) Close() error {
	return ErrNotOpen
}

// Shutdown releases nothing
func (p *PortAudio) Shutdown() error {
	return nil
}

// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for device enumeration and playback backends
package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gopxl/beep/v2"
)

// Channels is the channel count every backend opens with
const Channels = 2

var (
	// ErrNotOpen is returned when closing a stream that was never opened
	ErrNotOpen = errors.New("output not open")
	// ErrUnknownDevice is returned when opening a device the backend does not list
	ErrUnknownDevice = errors.New("unknown output device")
)

// Device describes a playback device a backend can open
type Device struct {
	ID      string
	Name    string
	Default bool
}

// Output represents an audio playback backend
type Output interface {
	// Name returns the backend name
	Name() string

	// Devices lists the playback devices currently available
	Devices() ([]Device, error)

	// Open starts pulling stereo frames from src on the given device
	Open(dev Device, sampleRate int, src beep.Streamer) error

	// Close stops the open stream; Open may be called again afterwards
	Close() error

	// Shutdown releases backend resources
	Shutdown() error
}

// New creates a backend by name. "wav:<path>" records to a file.
func New(name string) (Output, error) {
	if path, ok := strings.CutPrefix(name, "wav:"); ok {
		return NewWAV(path, true), nil
	}

	switch name {
	case "malgo", "":
		return NewMalgo(), nil
	case "oto":
		return NewOto(), nil
	case "pulse":
		return NewPulse(), nil
	case "speaker":
		return NewSpeaker(), nil
	case "portaudio":
		return NewPortAudio(), nil
	case "null":
		return NewNull(), nil
	case "wav":
		return NewWAV(DefaultWAVPath, true), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", name)
	}
}

// defaultDevice is the single device of backends without enumeration
var defaultDevice = Device{ID: "default", Name: "System default", Default: true}

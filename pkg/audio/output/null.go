// ABOUTME: Headless audio output implementation
// ABOUTME: Simulates a device list and lets callers pull frames by hand
package output

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gopxl/beep/v2"
)

// ErrOpenFailed is returned by Null.Open for devices marked as failing
var ErrOpenFailed = errors.New("device failed to open")

// Null output that discards audio. The device list can be changed at any
// time to simulate hot-plugging.
type Null struct {
	mu      sync.Mutex
	devices []Device
	failing map[string]bool
	current *Device
	rate    int
	pull    *puller
	opens   []string
}

// NewNull creates a headless output. Without devices it lists one default device.
func NewNull(devices ...Device) *Null {
	if len(devices) == 0 {
		devices = []Device{{ID: "null", Name: "Null output", Default: true}}
	}
	return &Null{devices: devices, failing: make(map[string]bool)}
}

// Name returns the backend name
func (n *Null) Name() string {
	return "null"
}

// SetDevices replaces the listed devices
func (n *Null) SetDevices(devices ...Device) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.devices = devices
}

// FailOpen makes every future Open on id fail
func (n *Null) FailOpen(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failing[id] = true
}

// Devices returns the simulated device list
func (n *Null) Devices() ([]Device, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Device(nil), n.devices...), nil
}

// Open records dev as the open device
func (n *Null) Open(dev Device, sampleRate int, src beep.Streamer) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.failing[dev.ID] {
		return fmt.Errorf("%w: %s", ErrOpenFailed, dev.ID)
	}

	d := dev
	n.current = &d
	n.rate = sampleRate
	n.pull = newPuller(src)
	n.opens = append(n.opens, dev.ID)
	return nil
}

// Close forgets the open device
func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return ErrNotOpen
	}
	n.current = nil
	n.pull = nil
	return nil
}

// Shutdown closes any open stream
func (n *Null) Shutdown() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = nil
	n.pull = nil
	return nil
}

// Current returns the open device
func (n *Null) Current() (Device, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return Device{}, false
	}
	return *n.current, true
}

// Opens returns the ids of every device opened so far, in order
func (n *Null) Opens() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.opens...)
}

// Pull streams frames from the open source as a device callback would
func (n *Null) Pull(frames int) [][2]float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.pull == nil {
		return nil
	}
	return append([][2]float64(nil), n.pull.frames(frames)...)
}

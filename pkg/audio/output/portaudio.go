//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform device enumeration and playback using PortAudio
package output

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
type PortAudio struct {
	mu          sync.Mutex
	initialized bool
	stream      *portaudio.Stream
	infos       []*portaudio.DeviceInfo
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{}
}

// Name returns the backend name
func (p *PortAudio) Name() string {
	return "portaudio"
}

// initialize starts PortAudio on first use (must hold p.mu)
func (p *PortAudio) initialize() error {
	if p.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	p.initialized = true
	return nil
}

// Devices lists devices with output channels
func (p *PortAudio) Devices() ([]Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.initialize(); err != nil {
		return nil, err
	}

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	def, _ := portaudio.DefaultOutputDevice()

	p.infos = p.infos[:0]
	var devices []Device
	for _, info := range infos {
		if info.MaxOutputChannels < Channels {
			continue
		}
		p.infos = append(p.infos, info)
		devices = append(devices, Device{
			ID:      strconv.Itoa(len(p.infos) - 1),
			Name:    info.Name,
			Default: def != nil && info.Name == def.Name,
		})
	}
	return devices, nil
}

// Open starts an output stream on dev pulling from src
func (p *PortAudio) Open(dev Device, sampleRate int, src beep.Streamer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.initialize(); err != nil {
		return err
	}
	if p.stream != nil {
		p.closeStream()
	}

	idx, err := strconv.Atoi(dev.ID)
	if err != nil || idx < 0 || idx >= len(p.infos) {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, dev.ID)
	}

	params := portaudio.HighLatencyParameters(nil, p.infos[idx])
	params.Output.Channels = Channels
	params.SampleRate = float64(sampleRate)

	pull := newPuller(src)
	stream, err := portaudio.OpenStream(params, func(out []float32) {
		pull.fill(out)
	})
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream
	return nil
}

// Close stops the output stream
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	p.closeStream()
	return nil
}

// closeStream stops and closes the stream (must hold p.mu)
func (p *PortAudio) closeStream() {
	p.stream.Stop()
	p.stream.Close()
	p.stream = nil
}

// Shutdown terminates PortAudio
func (p *PortAudio) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		p.closeStream()
	}
	if !p.initialized {
		return nil
	}
	p.initialized = false
	return portaudio.Terminate()
}

//go:build linux

// ABOUTME: PulseAudio output implementation
// ABOUTME: Enumerates PulseAudio sinks and plays float32 streams on them
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/jfreymuth/pulse"
)

// Pulse output implementation using a native PulseAudio client
type Pulse struct {
	mu     sync.Mutex
	client *pulse.Client
	stream *pulse.PlaybackStream
}

// NewPulse creates a new Pulse output
func NewPulse() Output {
	return &Pulse{}
}

// Name returns the backend name
func (p *Pulse) Name() string {
	return "pulse"
}

// connect opens the PulseAudio client on first use (must hold p.mu)
func (p *Pulse) connect() error {
	if p.client != nil {
		return nil
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName("xjge"))
	if err != nil {
		return fmt.Errorf("failed to connect to pulseaudio: %w", err)
	}
	p.client = client
	return nil
}

// Devices lists the PulseAudio sinks
func (p *Pulse) Devices() ([]Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connect(); err != nil {
		return nil, err
	}

	sinks, err := p.client.ListSinks()
	if err != nil {
		return nil, fmt.Errorf("failed to list sinks: %w", err)
	}

	defaultID := ""
	if sink, err := p.client.DefaultSink(); err == nil {
		defaultID = sink.ID()
	}

	devices := make([]Device, 0, len(sinks))
	for _, sink := range sinks {
		devices = append(devices, Device{
			ID:      sink.ID(),
			Name:    sink.Name(),
			Default: sink.ID() == defaultID,
		})
	}
	return devices, nil
}

// Open starts a playback stream on the sink matching dev
func (p *Pulse) Open(dev Device, sampleRate int, src beep.Streamer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connect(); err != nil {
		return err
	}
	if p.stream != nil {
		p.closeStream()
	}

	sink, err := p.client.SinkByID(dev.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, dev.ID)
	}

	pull := newPuller(src)
	reader := pulse.Float32Reader(func(out []float32) (int, error) {
		pull.fill(out)
		return len(out), nil
	})

	stream, err := p.client.NewPlayback(reader,
		pulse.PlaybackSink(sink),
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackStereo,
		pulse.PlaybackLatency(0.05),
	)
	if err != nil {
		return fmt.Errorf("failed to create playback stream: %w", err)
	}

	stream.Start()
	p.stream = stream
	log.Printf("Audio output initialized: %dHz, %d channels on %s (pulse)", sampleRate, Channels, dev.Name)
	return nil
}

// Close stops the playback stream
func (p *Pulse) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	p.closeStream()
	return nil
}

// closeStream stops and releases the stream (must hold p.mu)
func (p *Pulse) closeStream() {
	p.stream.Stop()
	p.stream.Close()
	p.stream = nil
}

// Shutdown closes the stream and the client
func (p *Pulse) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		p.closeStream()
	}
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}

// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo for device enumeration and float playback
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/gopxl/beep/v2"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	infos    []malgo.DeviceInfo
	pull     *puller
}

// NewMalgo creates a new Malgo output
func NewMalgo() Output {
	return &Malgo{}
}

// Name returns the backend name
func (m *Malgo) Name() string {
	return "malgo"
}

// initContext creates the malgo context on first use (must hold m.mu)
func (m *Malgo) initContext() error {
	if m.malgoCtx != nil {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Printf("malgo: %s", message)
	})
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	m.malgoCtx = ctx
	return nil
}

// Devices lists playback devices reported by miniaudio
func (m *Malgo) Devices() ([]Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.initContext(); err != nil {
		return nil, err
	}

	infos, err := m.malgoCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
	}
	m.infos = infos

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, Device{
			ID:      info.ID.String(),
			Name:    info.Name(),
			Default: info.IsDefault != 0,
		})
	}
	return devices, nil
}

// Open starts a float32 playback device pulling from src
func (m *Malgo) Open(dev Device, sampleRate int, src beep.Streamer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.initContext(); err != nil {
		return err
	}
	if m.device != nil {
		m.closeDevice()
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = Channels
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	found := false
	for i := range m.infos {
		if m.infos[i].ID.String() == dev.ID {
			deviceConfig.Playback.DeviceID = m.infos[i].ID.Pointer()
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, dev.ID)
	}

	m.pull = newPuller(src)
	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		m.pull.fillBytes(pOutputSample[:int(frameCount)*Channels*4])
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	log.Printf("Audio output initialized: %dHz, %d channels on %s (malgo/F32)", sampleRate, Channels, dev.Name)
	return nil
}

// Close stops and uninitializes the playback device
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return ErrNotOpen
	}
	m.closeDevice()
	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if err := m.device.Stop(); err != nil {
		log.Printf("Warning: device stop error: %v", err)
	}
	m.device.Uninit()
	m.device = nil
}

// Shutdown releases the device and the malgo context
func (m *Malgo) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		m.closeDevice()
	}
	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams float32 PCM to the default device using oto
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep/v2"
)

// Oto output implementation using oto library
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	sampleRate int
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{}
}

// Name returns the backend name
func (o *Oto) Name() string {
	return "oto"
}

// Devices returns the system default device; oto cannot select devices
func (o *Oto) Devices() ([]Device, error) {
	return []Device{defaultDevice}, nil
}

// Open starts a player pulling from src
func (o *Oto) Open(dev Device, sampleRate int, src beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if dev.ID != defaultDevice.ID {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, dev.ID)
	}

	// oto only allows one context per process, so it is reused across reopens
	if o.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatFloat32LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan

		o.otoCtx = ctx
		o.sampleRate = sampleRate
	} else if o.sampleRate != sampleRate {
		log.Printf("Warning: oto context runs at %dHz, ignoring requested %dHz", o.sampleRate, sampleRate)
	}

	if o.player != nil {
		o.player.Close()
	}
	if err := o.otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}

	o.player = o.otoCtx.NewPlayer(&streamReader{pull: newPuller(src)})
	o.player.Play()

	log.Printf("Audio output initialized: %dHz, %d channels (oto)", o.sampleRate, Channels)
	return nil
}

// Close stops the player and suspends the context
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotOpen
	}
	if err := o.player.Close(); err != nil {
		log.Printf("Warning: oto player close error: %v", err)
	}
	o.player = nil
	return o.otoCtx.Suspend()
}

// Shutdown closes any player; the oto context lives for the process
func (o *Oto) Shutdown() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	return nil
}

// streamReader adapts a puller to the io.Reader oto consumes
type streamReader struct {
	pull *puller
}

func (r *streamReader) Read(p []byte) (int, error) {
	return r.pull.fillBytes(p), nil
}

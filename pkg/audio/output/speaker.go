// ABOUTME: beep speaker audio output implementation
// ABOUTME: Plays through the process-wide beep speaker on the default device
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Speaker output implementation using the beep speaker package
type Speaker struct {
	mu         sync.Mutex
	sampleRate int
	open       bool
}

// NewSpeaker creates a new Speaker output
func NewSpeaker() Output {
	return &Speaker{}
}

// Name returns the backend name
func (s *Speaker) Name() string {
	return "speaker"
}

// Devices returns the system default device
func (s *Speaker) Devices() ([]Device, error) {
	return []Device{defaultDevice}, nil
}

// Open initializes the speaker at sampleRate and plays src
func (s *Speaker) Open(dev Device, sampleRate int, src beep.Streamer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dev.ID != defaultDevice.ID {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, dev.ID)
	}

	if s.sampleRate != sampleRate {
		sr := beep.SampleRate(sampleRate)
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}
		s.sampleRate = sampleRate
	}

	speaker.Clear()
	speaker.Play(src)
	s.open = true
	return nil
}

// Close removes the streamer from the speaker
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrNotOpen
	}
	speaker.Clear()
	s.open = false
	return nil
}

// Shutdown closes the speaker
func (s *Speaker) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sampleRate != 0 {
		speaker.Clear()
		speaker.Close()
		s.sampleRate = 0
	}
	s.open = false
	return nil
}

// ABOUTME: Sound system facade tying registry, voices, music and devices together
// ABOUTME: Exposes the operations game and console code call every frame
package sound

import (
	"errors"
	"fmt"
	"log"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/output"
)

// Channel selects a master volume
type Channel int

const (
	Effects Channel = iota
	MusicChannel
)

// String returns the channel name
func (c Channel) String() string {
	if c == MusicChannel {
		return "music"
	}
	return "effects"
}

// System is the engine's audio subsystem
type System struct {
	cfg     Config
	reg     *Registry
	devices *Devices
	pool    *Pool
	music   *Music
	check   *checker
}

// New enumerates devices on out and opens the first context. An error
// means audio is unavailable and the caller should terminate.
func New(cfg Config, out output.Output, reg *Registry) (*System, error) {
	cfg = cfg.withDefaults()
	if reg == nil {
		reg = NewRegistry(cfg.SampleRate)
	}

	devices := newDevices(out, cfg.SampleRate)
	if _, err := devices.Enumerate(); err != nil {
		return nil, fmt.Errorf("failed to enumerate output devices: %w", err)
	}

	ctx, err := devices.Open(cfg.PreferredDevice)
	if err != nil {
		return nil, err
	}

	check := &checker{policy: cfg.ErrorPolicy, fatalf: cfg.Fatalf}
	return &System{
		cfg:     cfg,
		reg:     reg,
		devices: devices,
		pool:    newPool(ctx, reg, cfg.EffectsVolume, check),
		music:   newMusic(ctx, reg, cfg.MusicVolume, cfg.IntroHandoffBuffers, check),
		check:   check,
	}, nil
}

// Registry returns the sound and song registry
func (s *System) Registry() *Registry {
	return s.reg
}

// Pool returns the general voice pool
func (s *System) Pool() *Pool {
	return s.pool
}

// Music returns the music controller
func (s *System) Music() *Music {
	return s.music
}

// Devices returns the output device manager
func (s *System) Devices() *Devices {
	return s.devices
}

// PlaySound plays a registered sound on a free or stolen voice
func (s *System) PlaySound(name string, loop bool) Handle {
	return s.pool.Play(name, loop)
}

// SetVoiceState changes the transport state of a voice or of AllVoices
func (s *System) SetVoiceState(target Handle, state State) {
	s.pool.SetState(target, state)
}

// SetVoiceWorldPosition places a voice in the world for 3D positioning
func (s *System) SetVoiceWorldPosition(h Handle, pos audio.Vec3) {
	s.pool.SetWorldPosition(h, pos)
}

// SetMasterVolume sets the effects or music volume. Values are not clamped.
func (s *System) SetMasterVolume(ch Channel, volume float64) {
	switch ch {
	case Effects:
		s.pool.SetVolume(volume)
	case MusicChannel:
		s.music.SetVolume(volume)
	default:
		log.Printf("Warning: unknown volume channel %d", ch)
	}
}

// PlayMusic restarts the music voice on a registered song
func (s *System) PlayMusic(name string) {
	s.music.Play(name)
}

// PauseMusic pauses the music voice
func (s *System) PauseMusic() {
	s.music.Pause()
}

// ResumeMusic resumes the music voice
func (s *System) ResumeMusic() {
	s.music.Resume()
}

// StopMusic stops the music voice
func (s *System) StopMusic() {
	s.music.Stop()
}

// CheckIntroFinished advances the music from intro to body when ready
func (s *System) CheckIntroFinished() bool {
	return s.music.CheckIntroFinished()
}

// Update re-projects positioned voices for this frame
func (s *System) Update(cams []Camera) {
	s.pool.Update(cams)
}

// SwitchDevice migrates all playback to another output device. Unknown
// devices are logged and ignored; losing every device or failing to open
// the new context is fatal.
func (s *System) SwitchDevice(sel Selector) error {
	err := s.devices.Switch(sel, s.pool, s.music)
	if err == nil || errors.Is(err, ErrUnknownDevice) {
		return err
	}

	s.cfg.Fatalf("Failed to switch audio device: %v", err)
	return err
}

// Close stops output and releases the backend
func (s *System) Close() error {
	return s.devices.Close()
}

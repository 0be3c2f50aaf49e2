// ABOUTME: Music controller for the reserved streaming voice
// ABOUTME: Queues intro and body buffers and hands off to a looping body
package sound

import (
	"log"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/al"
)

// Phase is the section of a song the music voice is in
type Phase int

const (
	PlayingIntro Phase = iota
	PlayingBody
)

// String returns the phase name
func (p Phase) String() string {
	if p == PlayingIntro {
		return "intro"
	}
	return "body"
}

// MusicSnapshot is the captured state of the music voice
type MusicSnapshot struct {
	Song          string
	State         State
	Offset        int
	IntroFinished bool
	Looping       bool
}

// Music owns the reserved music voice. It is never stolen by Pool.
type Music struct {
	ctx           *al.Context
	reg           *Registry
	source        al.SourceID
	song          *audio.Song
	loopBody      bool
	introFinished bool
	halted        bool
	volume        float64
	threshold     int
	check         *checker
}

func newMusic(ctx *al.Context, reg *Registry, volume float64, threshold int, check *checker) *Music {
	m := &Music{
		reg:           reg,
		volume:        volume,
		threshold:     threshold,
		introFinished: true,
		check:         check,
	}
	m.allocate(ctx)
	m.check.check(ctx, "music voice allocation")
	return m
}

// allocate creates the music source on ctx
func (m *Music) allocate(ctx *al.Context) {
	m.ctx = ctx
	m.source = ctx.GenSource()
	ctx.SetRelative(m.source, true)
	ctx.SetGain(m.source, m.volume)
}

// reset stops the voice and drops every queued buffer
func (m *Music) reset() {
	m.ctx.Stop(m.source)
	m.ctx.SetLooping(m.source, false)
	if n := m.ctx.BuffersProcessed(m.source); n > 0 {
		m.ctx.UnqueueBuffers(m.source, n)
	}
}

// Play restarts the music voice on song name. A missing name, or a song
// whose body failed to load, plays the fallback sound once.
func (m *Music) Play(name string) {
	m.reset()

	song, ok := m.reg.Song(name)
	loop := true
	if !ok {
		log.Printf("Warning: song %q not found, playing %q instead", name, audio.FallbackName)
		song = &audio.Song{Name: audio.FallbackName, Body: m.reg.Fallback()}
		loop = false
	}
	if song.Body.Substitute {
		loop = false
	}
	m.song = song
	m.loopBody = loop
	m.halted = false

	if song.HasIntro() {
		m.ctx.QueueBuffers(m.source, m.ctx.Buffer(song.Intro), m.ctx.Buffer(song.Body))
		m.ctx.SetLooping(m.source, false)
		m.introFinished = false
	} else {
		m.ctx.QueueBuffers(m.source, m.ctx.Buffer(song.Body))
		m.ctx.SetLooping(m.source, loop)
		m.introFinished = true
	}

	m.ctx.SetGain(m.source, m.volume)
	m.ctx.Play(m.source)
	m.check.check(m.ctx, "play music")
}

// CheckIntroFinished hands off from intro to looping body once the voice
// reports enough processed buffers. It must be polled every tick while a
// song with an intro plays and reports whether the hand-off happened.
func (m *Music) CheckIntroFinished() bool {
	if m.introFinished || m.halted || m.song == nil {
		return false
	}

	processed := m.ctx.BuffersProcessed(m.source)
	if processed < m.threshold {
		return false
	}

	m.ctx.UnqueueBuffers(m.source, processed)
	m.introFinished = true
	if !m.loopBody {
		m.check.check(m.ctx, "music intro hand-off")
		return true
	}

	if m.ctx.BuffersQueued(m.source) == 0 {
		m.ctx.QueueBuffers(m.source, m.ctx.Buffer(m.song.Body))
	}
	m.ctx.SetLooping(m.source, true)
	if m.ctx.State(m.source) != al.Playing {
		m.ctx.Play(m.source)
	}
	m.check.check(m.ctx, "music intro hand-off")
	return true
}

// Pause pauses the music voice
func (m *Music) Pause() {
	m.ctx.Pause(m.source)
	m.check.check(m.ctx, "pause music")
}

// Resume continues paused music
func (m *Music) Resume() {
	if m.ctx.State(m.source) == al.Paused {
		m.ctx.Play(m.source)
	}
	m.check.check(m.ctx, "resume music")
}

// Stop stops the music voice. A stopped intro is not handed off.
func (m *Music) Stop() {
	m.halted = true
	m.ctx.Stop(m.source)
	m.check.check(m.ctx, "stop music")
}

// SetVolume sets the music voice gain
func (m *Music) SetVolume(volume float64) {
	m.volume = volume
	m.ctx.SetGain(m.source, volume)
	m.check.check(m.ctx, "set music volume")
}

// Volume returns the music volume
func (m *Music) Volume() float64 {
	return m.volume
}

// Gain returns the device gain of the music voice
func (m *Music) Gain() float64 {
	return m.ctx.Gain(m.source)
}

// State returns the device state of the music voice
func (m *Music) State() State {
	return m.ctx.State(m.source)
}

// Looping returns the device loop flag of the music voice
func (m *Music) Looping() bool {
	return m.ctx.Looping(m.source)
}

// Phase returns the section of the current song being played
func (m *Music) Phase() Phase {
	if m.introFinished {
		return PlayingBody
	}
	return PlayingIntro
}

// SongName returns the name of the current song
func (m *Music) SongName() string {
	if m.song == nil {
		return ""
	}
	return m.song.Name
}

// Snapshot captures the music voice, reading state from the device
func (m *Music) Snapshot() MusicSnapshot {
	snap := MusicSnapshot{
		Song:          m.SongName(),
		State:         m.ctx.State(m.source),
		Offset:        m.ctx.SampleOffset(m.source),
		IntroFinished: m.introFinished,
		Looping:       m.ctx.Looping(m.source),
	}
	m.check.check(m.ctx, "snapshot music")
	return snap
}

// Restore recreates the music voice on ctx, rebuilding the intro and body
// queue the snapshot was taken in before seeking and resuming
func (m *Music) Restore(ctx *al.Context, snap MusicSnapshot) {
	m.allocate(ctx)
	m.introFinished = snap.IntroFinished

	if m.song == nil || snap.State == Initial {
		m.check.check(ctx, "restore music")
		return
	}

	total := m.song.Body.Frames()
	if !snap.IntroFinished && m.song.HasIntro() {
		ctx.QueueBuffers(m.source, ctx.Buffer(m.song.Intro), ctx.Buffer(m.song.Body))
		total += m.song.Intro.Frames()
	} else {
		ctx.QueueBuffers(m.source, ctx.Buffer(m.song.Body))
	}
	ctx.SetLooping(m.source, snap.Looping)

	if snap.Offset > 0 && snap.Offset < total && snap.State != Stopped {
		ctx.SetSampleOffset(m.source, snap.Offset)
	}

	switch snap.State {
	case Playing:
		ctx.Play(m.source)
	case Paused:
		ctx.Play(m.source)
		ctx.Pause(m.source)
	case Stopped:
		ctx.Stop(m.source)
	}
	m.check.check(ctx, "restore music")
}

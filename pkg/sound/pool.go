// ABOUTME: Voice pool manager for one-shot sounds
// ABOUTME: Allocates, steals, controls, snapshots and restores general voices
package sound

import (
	"log"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/al"
)

// MaxVoices is the number of general purpose voices
const MaxVoices = 63

// Handle identifies a general voice by its index in the pool
type Handle int

// AllVoices targets every general voice
const AllVoices Handle = -1

// State is the transport state of a voice
type State = al.State

const (
	Initial = al.Initial
	Playing = al.Playing
	Paused  = al.Paused
	Stopped = al.Stopped
)

type voice struct {
	source  al.SourceID
	sound   string
	state   State
	looping bool
	world   *audio.Vec3
}

// VoiceSnapshot is the captured state of one general voice
type VoiceSnapshot struct {
	Handle   Handle
	Sound    string
	State    State
	Offset   int
	Looping  bool
	Gain     float64
	World    *audio.Vec3
	// Position is the last position emitted for a positioned voice
	Position audio.Vec3
}

// Pool owns the general voices of the current context
type Pool struct {
	ctx    *al.Context
	reg    *Registry
	voices [MaxVoices]voice
	volume float64
	check  *checker
}

func newPool(ctx *al.Context, reg *Registry, volume float64, check *checker) *Pool {
	p := &Pool{reg: reg, volume: volume, check: check}
	p.allocate(ctx)
	for i := range p.voices {
		p.ctx.SetGain(p.voices[i].source, volume)
	}
	p.check.check(ctx, "voice allocation")
	return p
}

// allocate creates a fresh source for every voice on ctx
func (p *Pool) allocate(ctx *al.Context) {
	p.ctx = ctx
	for i := range p.voices {
		p.voices[i] = voice{source: ctx.GenSource(), state: Initial}
		ctx.SetRelative(p.voices[i].source, true)
	}
}

// valid reports whether h names a general voice
func (p *Pool) valid(h Handle) bool {
	return h >= 0 && int(h) < MaxVoices
}

// findOrSteal returns the first idle voice, or force-stops and returns the
// voice with the strictly lowest gain
func (p *Pool) findOrSteal() int {
	for i := range p.voices {
		st := p.ctx.State(p.voices[i].source)
		p.voices[i].state = st
		if st == Stopped || st == Initial {
			return i
		}
	}

	lowest := 0
	minGain := p.ctx.Gain(p.voices[0].source)
	for i := 1; i < MaxVoices; i++ {
		if g := p.ctx.Gain(p.voices[i].source); g < minGain {
			lowest, minGain = i, g
		}
	}

	p.ctx.Stop(p.voices[lowest].source)
	p.voices[lowest].state = Stopped
	return lowest
}

// Play starts name on a free or stolen voice. A missing name, or a name
// whose asset failed to load, plays the fallback sound without looping.
func (p *Pool) Play(name string, loop bool) Handle {
	h := p.findOrSteal()

	snd, ok := p.reg.Sound(name)
	if !ok {
		log.Printf("Warning: sound %q not found, playing %q instead", name, audio.FallbackName)
		snd = p.reg.Fallback()
		loop = false
	} else if snd.Substitute {
		loop = false
	}

	v := &p.voices[h]
	p.ctx.SetBuffer(v.source, p.ctx.Buffer(snd))
	p.ctx.SetLooping(v.source, loop)
	p.ctx.SetGain(v.source, p.volume)
	p.ctx.SetRelative(v.source, true)
	p.ctx.SetPosition(v.source, audio.Vec3{})
	p.ctx.Play(v.source)
	p.check.check(p.ctx, "play sound")

	v.sound = snd.Name
	v.looping = loop
	v.state = Playing
	v.world = nil
	return Handle(h)
}

// SetState changes the transport state of one voice or of AllVoices.
// Playing only resumes paused voices and Paused only pauses playing ones.
func (p *Pool) SetState(target Handle, state State) {
	if target == AllVoices {
		for i := range p.voices {
			p.apply(i, state)
		}
		p.check.check(p.ctx, "set voice state")
		return
	}

	if !p.valid(target) {
		log.Printf("Warning: invalid voice handle %d", target)
		return
	}
	p.apply(int(target), state)
	p.check.check(p.ctx, "set voice state")
}

func (p *Pool) apply(i int, state State) {
	v := &p.voices[i]
	current := p.ctx.State(v.source)

	switch state {
	case Playing:
		if current == Paused {
			p.ctx.Play(v.source)
		}
	case Paused:
		if current == Playing {
			p.ctx.Pause(v.source)
		}
	case Stopped:
		p.ctx.Stop(v.source)
	default:
		log.Printf("Warning: cannot set voice %d to state %v", i, state)
		return
	}
	v.state = p.ctx.State(v.source)
}

// SetVolume applies the effects volume to every general voice and future plays
func (p *Pool) SetVolume(volume float64) {
	p.volume = volume
	for i := range p.voices {
		p.ctx.SetGain(p.voices[i].source, volume)
	}
	p.check.check(p.ctx, "set effects volume")
}

// Volume returns the effects volume
func (p *Pool) Volume() float64 {
	return p.volume
}

// SetVoiceGain overrides the gain of one voice until the next SetVolume
func (p *Pool) SetVoiceGain(h Handle, gain float64) {
	if !p.valid(h) {
		log.Printf("Warning: invalid voice handle %d", h)
		return
	}
	p.ctx.SetGain(p.voices[h].source, gain)
	p.check.check(p.ctx, "set voice gain")
}

// SetWorldPosition places a voice in the world for 3D positioning
func (p *Pool) SetWorldPosition(h Handle, pos audio.Vec3) {
	if !p.valid(h) {
		log.Printf("Warning: invalid voice handle %d", h)
		return
	}
	v := &p.voices[h]
	v.world = &pos
	p.ctx.SetRelative(v.source, false)
	p.check.check(p.ctx, "set voice position")
}

// ClearWorldPosition removes a voice from 3D positioning
func (p *Pool) ClearWorldPosition(h Handle) {
	if !p.valid(h) {
		log.Printf("Warning: invalid voice handle %d", h)
		return
	}
	v := &p.voices[h]
	v.world = nil
	p.ctx.SetRelative(v.source, true)
	p.ctx.SetPosition(v.source, audio.Vec3{})
	p.check.check(p.ctx, "clear voice position")
}

// Update re-projects every playing positioned voice relative to the nearest camera
func (p *Pool) Update(cams []Camera) {
	for i := range p.voices {
		v := &p.voices[i]
		if v.world == nil || p.ctx.State(v.source) != Playing {
			continue
		}
		p.ctx.SetPosition(v.source, Project(*v.world, cams))
	}
	p.check.check(p.ctx, "update voice positions")
}

// State returns the device state of a voice
func (p *Pool) State(h Handle) State {
	if !p.valid(h) {
		return Initial
	}
	return p.ctx.State(p.voices[h].source)
}

// Gain returns the device gain of a voice
func (p *Pool) Gain(h Handle) float64 {
	if !p.valid(h) {
		return 0
	}
	return p.ctx.Gain(p.voices[h].source)
}

// Looping returns the device loop flag of a voice
func (p *Pool) Looping(h Handle) bool {
	if !p.valid(h) {
		return false
	}
	return p.ctx.Looping(p.voices[h].source)
}

// Offset returns the sample offset of a voice
func (p *Pool) Offset(h Handle) int {
	if !p.valid(h) {
		return 0
	}
	return p.ctx.SampleOffset(p.voices[h].source)
}

// Position returns the position last emitted for a voice
func (p *Pool) Position(h Handle) audio.Vec3 {
	if !p.valid(h) {
		return audio.Vec3{}
	}
	return p.ctx.Position(p.voices[h].source)
}

// SoundName returns the name of the sound last bound to a voice
func (p *Pool) SoundName(h Handle) string {
	if !p.valid(h) {
		return ""
	}
	return p.voices[h].sound
}

// Active returns the handles of voices that are playing or paused
func (p *Pool) Active() []Handle {
	var active []Handle
	for i := range p.voices {
		st := p.ctx.State(p.voices[i].source)
		p.voices[i].state = st
		if st == Playing || st == Paused {
			active = append(active, Handle(i))
		}
	}
	return active
}

// Snapshot captures every voice, reading state from the device
func (p *Pool) Snapshot() []VoiceSnapshot {
	snap := make([]VoiceSnapshot, 0, MaxVoices)
	for i := range p.voices {
		v := &p.voices[i]
		v.state = p.ctx.State(v.source)

		s := VoiceSnapshot{
			Handle:  Handle(i),
			Sound:   v.sound,
			State:   v.state,
			Offset:  p.ctx.SampleOffset(v.source),
			Looping: p.ctx.Looping(v.source),
			Gain:    p.ctx.Gain(v.source),
		}
		if v.world != nil {
			w := *v.world
			s.World = &w
			s.Position = p.ctx.Position(v.source)
		}
		snap = append(snap, s)
	}
	p.check.check(p.ctx, "snapshot voices")
	return snap
}

// Restore recreates every voice on ctx and replays the snapshot into it.
// Voices that were never started are left idle.
func (p *Pool) Restore(ctx *al.Context, snap []VoiceSnapshot) {
	p.allocate(ctx)
	for i := range p.voices {
		ctx.SetGain(p.voices[i].source, p.volume)
	}

	for _, s := range snap {
		if !p.valid(s.Handle) {
			continue
		}
		v := &p.voices[s.Handle]
		v.sound = s.Sound
		v.looping = s.Looping
		v.world = s.World

		ctx.SetGain(v.source, s.Gain)
		ctx.SetLooping(v.source, s.Looping)

		if s.State == Initial || s.Sound == "" {
			continue
		}

		snd, ok := p.reg.Sound(s.Sound)
		if !ok {
			log.Printf("Warning: sound %q no longer registered, restoring %q", s.Sound, audio.FallbackName)
			snd = p.reg.Fallback()
			v.sound = snd.Name
		}
		ctx.SetBuffer(v.source, ctx.Buffer(snd))
		ctx.SetRelative(v.source, s.World == nil)
		if s.World != nil {
			ctx.SetPosition(v.source, s.Position)
		}

		if s.Offset > 0 && s.Offset < snd.Frames() && s.State != Stopped {
			ctx.SetSampleOffset(v.source, s.Offset)
		}

		switch s.State {
		case Playing:
			ctx.Play(v.source)
		case Paused:
			ctx.Play(v.source)
			ctx.Pause(v.source)
		case Stopped:
			ctx.Stop(v.source)
		}
		v.state = ctx.State(v.source)
	}
	p.check.check(ctx, "restore voices")
}

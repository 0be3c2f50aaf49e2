// ABOUTME: Debug console for the audio system
// ABOUTME: Parses command lines and queues them for execution on the game thread
package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/XJGE/XJGE-legacy-sub000/internal/protocol"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/output"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/sound"
	"github.com/samber/lo"
)

var (
	// ErrUnknownCommand is returned for lines that name no command
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command has the wrong arguments
	ErrUsage = errors.New("usage")
)

// queueSize bounds the requests waiting for the next tick
const queueSize = 32

// Request is a command line waiting to run on the game thread
type Request struct {
	Line  string
	Reply chan Reply
}

// Reply is the outcome of one Request
type Reply struct {
	Output string
	Err    error
}

// Console executes command lines against a sound system. Execute and Drain
// must run on the thread that owns the system; Submit and Status are safe
// from any goroutine.
type Console struct {
	sys      *sound.System
	requests chan Request

	mu     sync.RWMutex
	status protocol.Status
}

// New creates a console for sys
func New(sys *sound.System) *Console {
	c := &Console{
		sys:      sys,
		requests: make(chan Request, queueSize),
	}
	c.publish()
	return c
}

// Submit queues line for the next Drain and waits for its reply
func (c *Console) Submit(ctx context.Context, line string) (string, error) {
	req := Request{Line: line, Reply: make(chan Reply, 1)}

	select {
	case c.requests <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case reply := <-req.Reply:
		return reply.Output, reply.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Drain runs every queued request and publishes a fresh status. It returns
// the number of requests run.
func (c *Console) Drain() int {
	n := 0
	for {
		select {
		case req := <-c.requests:
			out, err := c.Execute(req.Line)
			req.Reply <- Reply{Output: out, Err: err}
			n++
		default:
			c.publish()
			return n
		}
	}
}

// Status returns the status published by the last Drain
func (c *Console) Status() protocol.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Execute runs one command line immediately
func (c *Console) Execute(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	log.Printf("Console: %s", line)

	switch cmd {
	case "help":
		return help, nil
	case "devices":
		return c.devices(), nil
	case "device":
		return c.device(args)
	case "volume":
		return c.volume(args)
	case "beep":
		h := c.sys.PlaySound(audio.FallbackName, false)
		return fmt.Sprintf("voice %d", h), nil
	case "play":
		return c.play(args)
	case "stop":
		return c.transport(args, sound.Stopped)
	case "pause":
		return c.transport(args, sound.Paused)
	case "resume":
		return c.transport(args, sound.Playing)
	case "music":
		return c.music(args)
	case "voices":
		return c.voices(), nil
	case "sounds":
		return strings.Join(c.sys.Registry().SoundNames(), "\n"), nil
	case "songs":
		return strings.Join(c.sys.Registry().SongNames(), "\n"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

const help = `devices                       list output devices
device next|prev|<id>         switch output device
volume effects|music [v]      show or set a master volume
beep                          play the fallback tone
play <sound> [loop]           play a sound on a general voice
stop|pause|resume <voice|all> change voice state
music <song>|pause|resume|stop
voices                        list active voices
sounds, songs                 list registered assets`

func (c *Console) devices() string {
	d := c.sys.Devices()
	current := d.Current().ID
	lines := lo.Map(d.List(), func(dev output.Device, _ int) string {
		mark := " "
		if dev.ID == current {
			mark = "*"
		}
		return fmt.Sprintf("%s %s  %s", mark, dev.ID, dev.Name)
	})
	return strings.Join(lines, "\n")
}

func (c *Console) device(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: device next|prev|<id>", ErrUsage)
	}
	if err := c.sys.SwitchDevice(sound.Selector(args[0])); err != nil {
		return "", fmt.Errorf("failed to switch device: %w", err)
	}
	cur := c.sys.Devices().Current()
	return fmt.Sprintf("using %s (%s)", cur.Name, cur.ID), nil
}

func (c *Console) volume(args []string) (string, error) {
	if len(args) == 0 || len(args) > 2 {
		return "", fmt.Errorf("%w: volume effects|music [v]", ErrUsage)
	}

	var ch sound.Channel
	switch strings.ToLower(args[0]) {
	case "effects", "sfx":
		ch = sound.Effects
	case "music":
		ch = sound.MusicChannel
	default:
		return "", fmt.Errorf("%w: volume effects|music [v]", ErrUsage)
	}

	if len(args) == 2 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return "", fmt.Errorf("%w: invalid volume %q", ErrUsage, args[1])
		}
		c.sys.SetMasterVolume(ch, v)
	}

	v := c.sys.Pool().Volume()
	if ch == sound.MusicChannel {
		v = c.sys.Music().Volume()
	}
	return fmt.Sprintf("%s volume %.2f", ch, v), nil
}

func (c *Console) play(args []string) (string, error) {
	if len(args) == 0 || len(args) > 2 {
		return "", fmt.Errorf("%w: play <sound> [loop]", ErrUsage)
	}
	loop := len(args) == 2 && strings.EqualFold(args[1], "loop")
	h := c.sys.PlaySound(args[0], loop)
	return fmt.Sprintf("voice %d", h), nil
}

func (c *Console) transport(args []string, state sound.State) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: <voice|all>", ErrUsage)
	}

	target := sound.AllVoices
	if !strings.EqualFold(args[0], "all") {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("%w: invalid voice %q", ErrUsage, args[0])
		}
		target = sound.Handle(n)
	}

	c.sys.SetVoiceState(target, state)
	if target == sound.AllVoices {
		return fmt.Sprintf("all voices %s", state), nil
	}
	return fmt.Sprintf("voice %d %s", target, c.sys.Pool().State(target)), nil
}

func (c *Console) music(args []string) (string, error) {
	m := c.sys.Music()
	if len(args) == 0 {
		return fmt.Sprintf("%s %s (%s)", lo.Ternary(m.SongName() == "", "-", m.SongName()), m.State(), m.Phase()), nil
	}
	if len(args) != 1 {
		return "", fmt.Errorf("%w: music <song>|pause|resume|stop", ErrUsage)
	}

	switch strings.ToLower(args[0]) {
	case "pause":
		c.sys.PauseMusic()
	case "resume":
		c.sys.ResumeMusic()
	case "stop":
		c.sys.StopMusic()
	default:
		c.sys.PlayMusic(args[0])
	}
	return fmt.Sprintf("%s %s", m.SongName(), m.State()), nil
}

func (c *Console) voices() string {
	active := c.activeVoices()
	if len(active) == 0 {
		return "no active voices"
	}
	lines := lo.Map(active, func(v protocol.Voice, _ int) string {
		return fmt.Sprintf("%2d %-16s %-7s %8d gain %.2f%s",
			v.Handle, v.Sound, v.State, v.Offset, v.Gain, lo.Ternary(v.Looping, " loop", ""))
	})
	return strings.Join(lines, "\n")
}

func (c *Console) activeVoices() []protocol.Voice {
	pool := c.sys.Pool()
	return lo.Map(pool.Active(), func(h sound.Handle, _ int) protocol.Voice {
		return protocol.Voice{
			Handle:  int(h),
			Sound:   pool.SoundName(h),
			State:   pool.State(h).String(),
			Offset:  pool.Offset(h),
			Looping: pool.Looping(h),
			Gain:    pool.Gain(h),
		}
	})
}

// publish stores a status snapshot for readers on other goroutines
func (c *Console) publish() {
	d := c.sys.Devices()
	m := c.sys.Music()

	status := protocol.Status{
		Device:        d.Current().ID,
		DeviceName:    d.Current().Name,
		Devices:       lo.Map(d.List(), func(dev output.Device, _ int) string { return dev.ID }),
		Generation:    d.Generation(),
		EffectsVolume: c.sys.Pool().Volume(),
		MusicVolume:   m.Volume(),
		Song:          m.SongName(),
		MusicState:    m.State().String(),
		MusicPhase:    m.Phase().String(),
		Voices:        c.activeVoices(),
	}

	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

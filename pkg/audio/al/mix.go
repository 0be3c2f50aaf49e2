// ABOUTME: Software mixer for the audio context
// ABOUTME: Streams playing sources through beep with distance attenuation and panning
package al

import (
	"math"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/gopxl/beep/v2"
)

const (
	// resampleQuality is the beep resampler quality for rate conversion
	resampleQuality = 4

	referenceDistance = 1.0
	rolloffFactor     = 1.0
)

// Stream mixes every playing source into samples. It never runs dry.
func (c *Context) Stream(samples [][2]float64) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(samples)
	if c.closed {
		return len(samples), true
	}

	if cap(c.scratch) < len(samples) {
		c.scratch = make([][2]float64, len(samples))
	}
	tmp := c.scratch[:len(samples)]

	for _, id := range c.order {
		s := c.sources[id]
		if s.state == Playing {
			c.mixSource(s, samples, tmp)
		}
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (c *Context) Err() error {
	return nil
}

// mixSource adds one source into out, advancing through its queue (must hold c.mu)
func (c *Context) mixSource(s *source, out, tmp [][2]float64) {
	left, right := c.spatialize(s)

	filled := 0
	for filled < len(out) && s.state == Playing {
		if s.stream == nil {
			c.openStream(s)
		}

		n, ok := s.stream.Stream(tmp[:len(out)-filled])
		for i := 0; i < n; i++ {
			out[filled+i][0] += tmp[i][0] * left
			out[filled+i][1] += tmp[i][1] * right
		}
		filled += n
		s.frame = s.seeker.Position()

		if !ok || n == 0 {
			s.advance()
		}
	}
}

// openStream positions a streamer on the current buffer (must hold c.mu)
func (c *Context) openStream(s *source) {
	snd := c.buffers[s.queue[s.current]].sound
	seeker := snd.Streamer(0, snd.Frames())
	if s.frame > 0 {
		_ = seeker.Seek(s.frame)
	}

	s.seeker = seeker
	s.stream = seeker
	if snd.Format.SampleRate != c.rate {
		s.stream = beep.Resample(resampleQuality, beep.SampleRate(snd.Format.SampleRate), beep.SampleRate(c.rate), seeker)
	}
}

// advance moves to the next queued buffer, wrapping or stopping at the end
func (s *source) advance() {
	s.current++
	s.frame = 0
	s.dropStream()

	if s.current >= len(s.queue) {
		s.current = 0
		if !s.looping {
			s.state = Stopped
		}
	}
}

// spatialize returns per-channel gains for a source (must hold c.mu)
func (c *Context) spatialize(s *source) (float64, float64) {
	if s.relative || len(s.queue) == 0 || !c.buffers[s.queue[s.current]].sound.Mono() {
		return s.gain, s.gain
	}
	return pan(s.position, s.gain)
}

// pan attenuates by inverse clamped distance and pans with an equal-power
// law on the listener's right axis (+X, facing -Z). A source at the
// listener is centered.
func pan(pos audio.Vec3, gain float64) (float64, float64) {
	dist := pos.Length()
	if dist == 0 {
		return gain * math.Sqrt2 / 2, gain * math.Sqrt2 / 2
	}

	clamped := math.Max(dist, referenceDistance)
	attenuation := referenceDistance / (referenceDistance + rolloffFactor*(clamped-referenceDistance))

	theta := (pos.X/dist + 1) * math.Pi / 4
	left := math.Cos(theta) * attenuation
	right := math.Sin(theta) * attenuation
	return left * gain, right * gain
}

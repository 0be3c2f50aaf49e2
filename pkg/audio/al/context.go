// ABOUTME: Audio context owning sources and buffers
// ABOUTME: Implements source transport, queueing, gain, looping and offsets
package al

import (
	"fmt"
	"sync"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/gopxl/beep/v2"
)

// Context is the live connection between the process and one output device
type Context struct {
	mu      sync.Mutex
	rate    int
	nextID  uint32
	sources map[SourceID]*source
	buffers map[BufferID]*buffer
	bySound map[*audio.Sound]BufferID
	order   []SourceID
	err     Error
	closed  bool
	scratch [][2]float64
}

type buffer struct {
	sound *audio.Sound
}

type source struct {
	state    State
	kind     SourceType
	queue    []BufferID
	current  int
	frame    int
	pending  int
	gain     float64
	looping  bool
	relative bool
	position audio.Vec3

	seeker beep.StreamSeeker
	stream beep.Streamer
}

// NewContext creates a context mixing at the given sample rate
func NewContext(sampleRate int) (*Context, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid context sample rate: %d", sampleRate)
	}

	return &Context{
		rate:    sampleRate,
		sources: make(map[SourceID]*source),
		buffers: make(map[BufferID]*buffer),
		bySound: make(map[*audio.Sound]BufferID),
	}, nil
}

// SampleRate returns the mixing rate of the context
func (c *Context) SampleRate() int {
	return c.rate
}

// GetError returns the first error recorded since the last call and clears it
func (c *Context) GetError() Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.err
	c.err = NoError
	return e
}

// setError records e unless an earlier error is still pending (must hold c.mu)
func (c *Context) setError(e Error) {
	if c.err == NoError {
		c.err = e
	}
}

// lookup resolves a source id (must hold c.mu)
func (c *Context) lookup(id SourceID) *source {
	if c.closed {
		c.setError(InvalidOperation)
		return nil
	}
	s, ok := c.sources[id]
	if !ok {
		c.setError(InvalidName)
		return nil
	}
	return s
}

// GenSource allocates a new source in the Initial state
func (c *Context) GenSource() SourceID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.setError(InvalidOperation)
		return 0
	}

	c.nextID++
	id := SourceID(c.nextID)
	c.sources[id] = &source{gain: 1, pending: -1}
	c.order = append(c.order, id)
	return id
}

// DeleteSource releases a source
func (c *Context) DeleteSource(id SourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lookup(id) == nil {
		return
	}
	delete(c.sources, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Buffer returns the buffer holding s, uploading it on first use
func (c *Context) Buffer(s *audio.Sound) BufferID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.setError(InvalidOperation)
		return NoBuffer
	}
	if s == nil {
		c.setError(InvalidValue)
		return NoBuffer
	}
	if id, ok := c.bySound[s]; ok {
		return id
	}

	c.nextID++
	id := BufferID(c.nextID)
	c.buffers[id] = &buffer{sound: s}
	c.bySound[s] = id
	return id
}

// DeleteBuffer releases a buffer that no source references
func (c *Context) DeleteBuffer(id BufferID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.setError(InvalidOperation)
		return
	}
	b, ok := c.buffers[id]
	if !ok {
		c.setError(InvalidName)
		return
	}
	for _, s := range c.sources {
		for _, q := range s.queue {
			if q == id {
				c.setError(InvalidOperation)
				return
			}
		}
	}
	delete(c.buffers, id)
	delete(c.bySound, b.sound)
}

// SetBuffer binds a single static buffer. NoBuffer clears the source and
// resets its type.
func (c *Context) SetBuffer(id SourceID, b BufferID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return
	}
	if s.state == Playing || s.state == Paused {
		c.setError(InvalidOperation)
		return
	}
	if b == NoBuffer {
		s.queue = nil
		s.kind = Undetermined
		s.reset()
		return
	}
	if s.kind == Streaming {
		c.setError(InvalidOperation)
		return
	}
	if _, ok := c.buffers[b]; !ok {
		c.setError(InvalidValue)
		return
	}

	s.queue = []BufferID{b}
	s.kind = Static
	s.reset()
}

// QueueBuffers appends buffers to a streaming source
func (c *Context) QueueBuffers(id SourceID, bufs ...BufferID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return
	}
	if s.kind == Static {
		c.setError(InvalidOperation)
		return
	}
	for _, b := range bufs {
		if _, ok := c.buffers[b]; !ok {
			c.setError(InvalidValue)
			return
		}
	}

	s.kind = Streaming
	s.queue = append(s.queue, bufs...)
}

// UnqueueBuffers removes n processed buffers from the front of the queue
func (c *Context) UnqueueBuffers(id SourceID, n int) []BufferID {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return nil
	}
	if s.kind != Streaming && n > 0 {
		c.setError(InvalidOperation)
		return nil
	}
	if n < 0 || n > s.processed() {
		c.setError(InvalidValue)
		return nil
	}

	removed := append([]BufferID(nil), s.queue[:n]...)
	s.queue = s.queue[n:]
	if s.state == Playing || s.state == Paused {
		s.current -= n
	}
	return removed
}

// BuffersQueued returns the number of buffers in the source queue
func (c *Context) BuffersQueued(id SourceID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return 0
	}
	return len(s.queue)
}

// BuffersProcessed returns the number of queued buffers that finished playing
func (c *Context) BuffersProcessed(id SourceID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return 0
	}
	return s.processed()
}

// SourceType returns whether the source is static or streaming
func (c *Context) SourceType(id SourceID) SourceType {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return Undetermined
	}
	return s.kind
}

// Play starts the source. A playing source restarts and a paused one resumes.
func (c *Context) Play(id SourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return
	}
	if s.state == Paused {
		s.state = Playing
		return
	}
	if len(s.queue) == 0 {
		s.state = Stopped
		return
	}

	s.current, s.frame = 0, 0
	if s.pending >= 0 {
		s.current, s.frame = c.locate(s, s.pending)
		s.pending = -1
	}
	s.dropStream()
	s.state = Playing
}

// Pause suspends a playing source
func (c *Context) Pause(id SourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return
	}
	if s.state == Playing {
		s.state = Paused
	}
}

// Stop halts the source and marks every queued buffer processed
func (c *Context) Stop(id SourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return
	}
	s.reset()
	s.state = Stopped
}

// Rewind returns the source to the Initial state
func (c *Context) Rewind(id SourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return
	}
	s.reset()
	s.state = Initial
}

// State returns the transport state of the source
func (c *Context) State(id SourceID) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return Initial
	}
	return s.state
}

// SetGain sets the source volume scalar. Negative values are rejected.
func (c *Context) SetGain(id SourceID, gain float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return
	}
	if gain < 0 {
		c.setError(InvalidValue)
		return
	}
	s.gain = gain
}

// Gain returns the source volume scalar
func (c *Context) Gain(id SourceID) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return 0
	}
	return s.gain
}

// SetLooping sets whether the source wraps to the start of its queue
func (c *Context) SetLooping(id SourceID, looping bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.lookup(id); s != nil {
		s.looping = looping
	}
}

// Looping returns the loop flag of the source
func (c *Context) Looping(id SourceID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return false
	}
	return s.looping
}

// SetPosition sets the emitted position relative to the listener at the origin
func (c *Context) SetPosition(id SourceID, pos audio.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.lookup(id); s != nil {
		s.position = pos
	}
}

// Position returns the emitted position of the source
func (c *Context) Position(id SourceID) audio.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return audio.Vec3{}
	}
	return s.position
}

// SetRelative disables spatialization for the source
func (c *Context) SetRelative(id SourceID, relative bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.lookup(id); s != nil {
		s.relative = relative
	}
}

// SetSampleOffset seeks to a frame offset measured across the whole queue.
// On an Initial or Stopped source the offset is applied by the next Play.
func (c *Context) SetSampleOffset(id SourceID, offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return
	}
	if offset < 0 || offset >= c.queueLength(s) {
		c.setError(InvalidValue)
		return
	}

	switch s.state {
	case Playing, Paused:
		s.current, s.frame = c.locate(s, offset)
		s.dropStream()
	default:
		s.pending = offset
	}
}

// SampleOffset returns the playback position in frames across the whole queue
func (c *Context) SampleOffset(id SourceID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.lookup(id)
	if s == nil {
		return 0
	}

	switch s.state {
	case Playing, Paused:
		offset := s.frame
		for _, b := range s.queue[:s.current] {
			offset += c.buffers[b].sound.Frames()
		}
		return offset
	default:
		if s.pending >= 0 {
			return s.pending
		}
		return 0
	}
}

// Close destroys the context and invalidates every id it issued
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.sources = make(map[SourceID]*source)
	c.buffers = make(map[BufferID]*buffer)
	c.bySound = make(map[*audio.Sound]BufferID)
	c.order = nil
}

// Closed reports whether Close has been called
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// queueLength returns the total frames queued on s (must hold c.mu)
func (c *Context) queueLength(s *source) int {
	total := 0
	for _, b := range s.queue {
		total += c.buffers[b].sound.Frames()
	}
	return total
}

// locate maps a queue offset to a buffer index and frame (must hold c.mu)
func (c *Context) locate(s *source, offset int) (int, int) {
	for i, b := range s.queue {
		n := c.buffers[b].sound.Frames()
		if offset < n {
			return i, offset
		}
		offset -= n
	}
	return 0, 0
}

// processed returns how many buffers at the front of the queue are done
func (s *source) processed() int {
	if s.looping {
		return 0
	}
	switch s.state {
	case Stopped:
		return len(s.queue)
	case Playing, Paused:
		return s.current
	default:
		return 0
	}
}

// reset rewinds the read position and drops any pending seek
func (s *source) reset() {
	s.current, s.frame = 0, 0
	s.pending = -1
	s.dropStream()
}

func (s *source) dropStream() {
	s.seeker = nil
	s.stream = nil
}

// ABOUTME: Tests for the software audio context
// ABOUTME: Tests transport states, type locks, queue processing and mixing
package al

import (
	"math"
	"testing"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
)

const testRate = 100

func newTestSound(t *testing.T, name string, frames int, channels int) *audio.Sound {
	t.Helper()

	data := make([][2]float64, frames)
	for i := range data {
		data[i] = [2]float64{0.5, 0.5}
	}
	s, err := audio.NewSound(name, audio.Format{SampleRate: testRate, Channels: channels}, data)
	if err != nil {
		t.Fatalf("failed to create sound: %v", err)
	}
	return s
}

func newTestContext(t *testing.T) *Context {
	t.Helper()

	ctx, err := NewContext(testRate)
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	return ctx
}

func TestNewContextInvalidRate(t *testing.T) {
	if _, err := NewContext(0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestSourceTransport(t *testing.T) {
	ctx := newTestContext(t)
	src := ctx.GenSource()
	ctx.SetBuffer(src, ctx.Buffer(newTestSound(t, "a", 50, 1)))

	if s := ctx.State(src); s != Initial {
		t.Fatalf("expected initial, got %v", s)
	}

	ctx.Pause(src)
	if s := ctx.State(src); s != Initial {
		t.Errorf("expected pause on initial source to be ignored, got %v", s)
	}

	ctx.Play(src)
	if s := ctx.State(src); s != Playing {
		t.Errorf("expected playing, got %v", s)
	}

	ctx.Pause(src)
	if s := ctx.State(src); s != Paused {
		t.Errorf("expected paused, got %v", s)
	}

	ctx.Play(src)
	if s := ctx.State(src); s != Playing {
		t.Errorf("expected resume to playing, got %v", s)
	}

	ctx.Stop(src)
	if s := ctx.State(src); s != Stopped {
		t.Errorf("expected stopped, got %v", s)
	}

	ctx.Rewind(src)
	if s := ctx.State(src); s != Initial {
		t.Errorf("expected initial after rewind, got %v", s)
	}

	if e := ctx.GetError(); e != NoError {
		t.Errorf("expected no error, got %v", e)
	}
}

func TestPlayWithoutBufferStops(t *testing.T) {
	ctx := newTestContext(t)
	src := ctx.GenSource()

	ctx.Play(src)
	if s := ctx.State(src); s != Stopped {
		t.Errorf("expected stopped, got %v", s)
	}
}

func TestSourceTypeLock(t *testing.T) {
	ctx := newTestContext(t)
	snd := newTestSound(t, "a", 10, 1)

	static := ctx.GenSource()
	ctx.SetBuffer(static, ctx.Buffer(snd))
	ctx.QueueBuffers(static, ctx.Buffer(snd))
	if e := ctx.GetError(); e != InvalidOperation {
		t.Errorf("expected invalid operation queueing on static source, got %v", e)
	}
	if k := ctx.SourceType(static); k != Static {
		t.Errorf("expected static, got %v", k)
	}

	streaming := ctx.GenSource()
	ctx.QueueBuffers(streaming, ctx.Buffer(snd))
	ctx.SetBuffer(streaming, ctx.Buffer(snd))
	if e := ctx.GetError(); e != InvalidOperation {
		t.Errorf("expected invalid operation binding on streaming source, got %v", e)
	}

	ctx.SetBuffer(streaming, NoBuffer)
	if k := ctx.SourceType(streaming); k != Undetermined {
		t.Errorf("expected undetermined after clearing, got %v", k)
	}
}

func TestGetErrorKeepsFirstAndClears(t *testing.T) {
	ctx := newTestContext(t)

	ctx.Play(SourceID(99))
	ctx.SetGain(SourceID(99), -1)

	if e := ctx.GetError(); e != InvalidName {
		t.Errorf("expected invalid name, got %v", e)
	}
	if e := ctx.GetError(); e != NoError {
		t.Errorf("expected error to be cleared, got %v", e)
	}
}

func TestSetGainRejectsNegative(t *testing.T) {
	ctx := newTestContext(t)
	src := ctx.GenSource()

	ctx.SetGain(src, 0.3)
	ctx.SetGain(src, -0.5)
	if e := ctx.GetError(); e != InvalidValue {
		t.Errorf("expected invalid value, got %v", e)
	}
	if g := ctx.Gain(src); g != 0.3 {
		t.Errorf("expected gain 0.3, got %f", g)
	}

	ctx.SetGain(src, 1.5)
	if g := ctx.Gain(src); g != 1.5 {
		t.Errorf("expected gain above one to pass through, got %f", g)
	}
}

func TestQueueProcessing(t *testing.T) {
	ctx := newTestContext(t)
	intro := newTestSound(t, "intro", 10, 2)
	body := newTestSound(t, "body", 10, 2)

	src := ctx.GenSource()
	ctx.QueueBuffers(src, ctx.Buffer(intro), ctx.Buffer(body))
	ctx.Play(src)

	out := make([][2]float64, 5)
	ctx.Stream(out)
	if p := ctx.BuffersProcessed(src); p != 0 {
		t.Errorf("expected 0 processed, got %d", p)
	}

	out = make([][2]float64, 10)
	ctx.Stream(out)
	if p := ctx.BuffersProcessed(src); p != 1 {
		t.Errorf("expected 1 processed, got %d", p)
	}
	if off := ctx.SampleOffset(src); off != 15 {
		t.Errorf("expected offset 15, got %d", off)
	}

	ctx.Stream(out)
	if s := ctx.State(src); s != Stopped {
		t.Errorf("expected source to stop at end of queue, got %v", s)
	}
	if p := ctx.BuffersProcessed(src); p != 2 {
		t.Errorf("expected 2 processed, got %d", p)
	}

	removed := ctx.UnqueueBuffers(src, 2)
	if len(removed) != 2 {
		t.Fatalf("expected 2 buffers unqueued, got %d", len(removed))
	}
	if q := ctx.BuffersQueued(src); q != 0 {
		t.Errorf("expected empty queue, got %d", q)
	}
}

func TestUnqueueUnprocessedFails(t *testing.T) {
	ctx := newTestContext(t)
	snd := newTestSound(t, "a", 10, 1)

	src := ctx.GenSource()
	ctx.QueueBuffers(src, ctx.Buffer(snd))
	ctx.Play(src)

	if removed := ctx.UnqueueBuffers(src, 1); removed != nil {
		t.Errorf("expected nothing unqueued, got %v", removed)
	}
	if e := ctx.GetError(); e != InvalidValue {
		t.Errorf("expected invalid value, got %v", e)
	}
}

func TestLoopingSourceWraps(t *testing.T) {
	ctx := newTestContext(t)
	src := ctx.GenSource()
	ctx.QueueBuffers(src, ctx.Buffer(newTestSound(t, "a", 10, 2)))
	ctx.SetLooping(src, true)
	ctx.Play(src)

	out := make([][2]float64, 25)
	ctx.Stream(out)

	if s := ctx.State(src); s != Playing {
		t.Errorf("expected looping source to keep playing, got %v", s)
	}
	if p := ctx.BuffersProcessed(src); p != 0 {
		t.Errorf("expected looping source to report 0 processed, got %d", p)
	}
	if off := ctx.SampleOffset(src); off != 5 {
		t.Errorf("expected offset 5, got %d", off)
	}
	if out[24][0] == 0 {
		t.Error("expected wrapped frames to be mixed")
	}
}

func TestPendingSampleOffset(t *testing.T) {
	ctx := newTestContext(t)
	src := ctx.GenSource()
	ctx.SetBuffer(src, ctx.Buffer(newTestSound(t, "a", 50, 2)))

	ctx.SetSampleOffset(src, 20)
	if off := ctx.SampleOffset(src); off != 20 {
		t.Errorf("expected pending offset 20, got %d", off)
	}

	ctx.Play(src)
	if off := ctx.SampleOffset(src); off != 20 {
		t.Errorf("expected play to apply offset 20, got %d", off)
	}

	ctx.SetSampleOffset(src, 500)
	if e := ctx.GetError(); e != InvalidValue {
		t.Errorf("expected invalid value for offset past end, got %v", e)
	}

	ctx.Stop(src)
	if off := ctx.SampleOffset(src); off != 0 {
		t.Errorf("expected stopped offset 0, got %d", off)
	}
}

func TestStreamMixesWithGain(t *testing.T) {
	ctx := newTestContext(t)
	src := ctx.GenSource()
	ctx.SetBuffer(src, ctx.Buffer(newTestSound(t, "a", 10, 2)))
	ctx.SetGain(src, 0.5)
	ctx.Play(src)

	out := make([][2]float64, 20)
	n, ok := ctx.Stream(out)
	if n != 20 || !ok {
		t.Fatalf("expected 20 frames and ok, got %d %v", n, ok)
	}
	if math.Abs(out[0][0]-0.25) > 0.001 {
		t.Errorf("expected 0.25, got %f", out[0][0])
	}
	if out[15][0] != 0 {
		t.Errorf("expected silence after the buffer ended, got %f", out[15][0])
	}
}

func TestPan(t *testing.T) {
	center := math.Sqrt2 / 2
	tests := []struct {
		name        string
		pos         audio.Vec3
		left, right float64
	}{
		{"origin", audio.Vec3{}, center, center},
		{"ahead", audio.Vec3{Z: -1}, center, center},
		{"behind", audio.Vec3{Z: 1}, center, center},
		{"right", audio.Vec3{X: 1}, 0, 1},
		{"left", audio.Vec3{X: -1}, 1, 0},
		{"far ahead", audio.Vec3{Z: -4}, 0.25 * center, 0.25 * center},
		{"half right", audio.Vec3{X: 0.5, Z: -math.Sqrt(0.75)}, math.Cos(3 * math.Pi / 8), math.Sin(3 * math.Pi / 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := pan(tt.pos, 1)
			if math.Abs(l-tt.left) > 1e-9 || math.Abs(r-tt.right) > 1e-9 {
				t.Errorf("expected (%f, %f), got (%f, %f)", tt.left, tt.right, l, r)
			}
		})
	}
}

func TestPanKeepsPower(t *testing.T) {
	for x := -1.0; x <= 1.0; x += 0.25 {
		pos := audio.Vec3{X: x, Z: -math.Sqrt(1 - x*x)}
		l, r := pan(pos, 1)
		if p := l*l + r*r; math.Abs(p-1) > 1e-9 {
			t.Errorf("expected unit power at x=%.2f, got %f", x, p)
		}
	}
}

func TestClosedContext(t *testing.T) {
	ctx := newTestContext(t)
	src := ctx.GenSource()
	ctx.Close()

	if !ctx.Closed() {
		t.Error("expected context to report closed")
	}

	ctx.Play(src)
	if e := ctx.GetError(); e != InvalidOperation {
		t.Errorf("expected invalid operation, got %v", e)
	}

	out := make([][2]float64, 4)
	if n, ok := ctx.Stream(out); n != 4 || !ok {
		t.Errorf("expected closed context to stream silence, got %d %v", n, ok)
	}
}

func TestDeleteBufferInUse(t *testing.T) {
	ctx := newTestContext(t)
	snd := newTestSound(t, "a", 10, 1)
	buf := ctx.Buffer(snd)

	if again := ctx.Buffer(snd); again != buf {
		t.Errorf("expected cached buffer %d, got %d", buf, again)
	}

	src := ctx.GenSource()
	ctx.SetBuffer(src, buf)
	ctx.DeleteBuffer(buf)
	if e := ctx.GetError(); e != InvalidOperation {
		t.Errorf("expected invalid operation, got %v", e)
	}

	ctx.SetBuffer(src, NoBuffer)
	ctx.DeleteBuffer(buf)
	if e := ctx.GetError(); e != NoError {
		t.Errorf("expected buffer delete to succeed, got %v", e)
	}
}

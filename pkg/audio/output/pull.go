// ABOUTME: Converts a beep.Streamer into interleaved float32 output
// ABOUTME: Shared by the callback and reader based backends
package output

import (
	"encoding/binary"
	"math"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/gopxl/beep/v2"
)

// puller reads stereo frames from a streamer into device buffers
type puller struct {
	src beep.Streamer
	buf [][2]float64
}

func newPuller(src beep.Streamer) *puller {
	return &puller{src: src, buf: make([][2]float64, 512)}
}

// frames streams n frames, padding with silence if the source runs dry
func (p *puller) frames(n int) [][2]float64 {
	if cap(p.buf) < n {
		p.buf = make([][2]float64, n)
	}
	buf := p.buf[:n]

	got := 0
	for got < n {
		k, ok := p.src.Stream(buf[got:])
		got += k
		if !ok || k == 0 {
			break
		}
	}
	clear(buf[got:])
	return buf
}

// fill writes interleaved stereo float32 samples
func (p *puller) fill(out []float32) {
	buf := p.frames(len(out) / Channels)
	for i, f := range buf {
		out[i*2] = float32(audio.Clamp(f[0]))
		out[i*2+1] = float32(audio.Clamp(f[1]))
	}
}

// fillBytes writes interleaved stereo float32 little-endian samples
func (p *puller) fillBytes(out []byte) int {
	frames := len(out) / (Channels * 4)
	buf := p.frames(frames)
	for i, f := range buf {
		binary.LittleEndian.PutUint32(out[i*8:], math.Float32bits(float32(audio.Clamp(f[0]))))
		binary.LittleEndian.PutUint32(out[i*8+4:], math.Float32bits(float32(audio.Clamp(f[1]))))
	}
	return frames * Channels * 4
}

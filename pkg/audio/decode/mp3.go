// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to stereo frames with go-mp3
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3() Decoder {
	return &MP3Decoder{}
}

// Decode reads a complete MP3 stream. go-mp3 always yields 16-bit stereo.
func (d *MP3Decoder) Decode(r io.Reader) (*PCM, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := len(data) / 2
	samples := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}

	return &PCM{
		Format: formatFor(decoder.SampleRate(), 2),
		Frames: interleaved(samples, 2),
	}, nil
}

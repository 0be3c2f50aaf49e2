// ABOUTME: Raw PCM audio decoder
// ABOUTME: Decodes headerless 16-bit little-endian PCM
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
)

// PCMDecoder decodes raw signed 16-bit little-endian PCM
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder for data in the given layout
func NewPCM(format audio.Format) (Decoder, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("invalid format for PCM decoder: %w", err)
	}

	return &PCMDecoder{format: format}, nil
}

// Decode converts PCM bytes to frames
func (d *PCMDecoder) Decode(r io.Reader) (*PCM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}

	numSamples := len(data) / 2
	samples := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	return &PCM{Format: d.format, Frames: interleaved(samples, d.format.Channels)}, nil
}

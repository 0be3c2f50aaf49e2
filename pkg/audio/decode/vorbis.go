// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes Ogg Vorbis files with jfreymuth/oggvorbis
package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis audio
type VorbisDecoder struct{}

// NewVorbis creates a new Ogg Vorbis decoder
func NewVorbis() Decoder {
	return &VorbisDecoder{}
}

// Decode reads a complete Ogg Vorbis stream
func (d *VorbisDecoder) Decode(r io.Reader) (*PCM, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis decode error: %w", err)
	}

	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = float64(v)
	}

	return &PCM{
		Format: formatFor(format.SampleRate, format.Channels),
		Frames: interleaved(samples, format.Channels),
	}, nil
}

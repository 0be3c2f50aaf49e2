// ABOUTME: Opus audio decoder
// ABOUTME: Decodes Ogg Opus files with libopusfile via hraban/opus
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// opusRate is the rate libopusfile always decodes at
const opusRate = 48000

// OpusDecoder decodes Ogg Opus audio
type OpusDecoder struct{}

// NewOpus creates a new Opus decoder
func NewOpus() Decoder {
	return &OpusDecoder{}
}

// Decode reads a complete Ogg Opus stream
func (d *OpusDecoder) Decode(r io.Reader) (*PCM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read opus data: %w", err)
	}

	channels, err := opusChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	var samples []float64
	pcm16 := make([]int16, 5760*channels)
	for {
		n, err := stream.Read(pcm16)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		for _, s := range pcm16[:n*channels] {
			samples = append(samples, audio.SampleFromInt16(s))
		}
	}

	return &PCM{
		Format: formatFor(opusRate, channels),
		Frames: interleaved(samples, channels),
	}, nil
}

// opusChannels reads the channel count from the OpusHead packet
func opusChannels(data []byte) (int, error) {
	idx := bytes.Index(data, []byte("OpusHead"))
	if idx < 0 || idx+9 >= len(data) {
		return 0, errors.New("missing OpusHead packet")
	}

	channels := int(data[idx+9])
	if channels == 0 {
		return 0, errors.New("opus stream has no channels")
	}
	return channels, nil
}

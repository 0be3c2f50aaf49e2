// ABOUTME: Decoder interface and asset loading
// ABOUTME: Picks a decoder by file extension and builds sounds from files
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
)

var (
	// ErrNotFound is returned when an asset file does not exist
	ErrNotFound = errors.New("audio file not found")
	// ErrUnsupported is returned for file extensions without a decoder
	ErrUnsupported = errors.New("unsupported audio format")
)

// PCM is decoded audio ready to become a Sound
type PCM struct {
	Format audio.Format
	Frames [][2]float64
}

// Decoder decodes a complete encoded file to PCM
type Decoder interface {
	Decode(r io.Reader) (*PCM, error)
}

// RawFormat is the layout assumed for headerless .pcm and .raw files
var RawFormat = audio.Format{SampleRate: 44100, Channels: 1}

// ForExtension returns the decoder for a file extension such as ".ogg"
func ForExtension(ext string) (Decoder, error) {
	switch strings.ToLower(ext) {
	case ".wav", ".wave":
		return NewWAV(), nil
	case ".mp3":
		return NewMP3(), nil
	case ".ogg", ".oga":
		return NewVorbis(), nil
	case ".flac":
		return NewFLAC(), nil
	case ".opus":
		return NewOpus(), nil
	case ".pcm", ".raw":
		return NewPCM(RawFormat)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// Supported reports whether a decoder exists for the file's extension
func Supported(path string) bool {
	_, err := ForExtension(filepath.Ext(path))
	return err == nil
}

// LoadFile decodes a file into a Sound named after the file without its extension
func LoadFile(path string) (*audio.Sound, error) {
	ext := filepath.Ext(path)
	dec, err := ForExtension(ext)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	pcm, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ext)
	return audio.NewSound(name, pcm.Format, pcm.Frames)
}

// interleaved splits interleaved samples into stereo frames. Mono is
// duplicated and anything wider keeps the front left and right channels.
func interleaved(samples []float64, channels int) [][2]float64 {
	if channels <= 0 {
		return nil
	}

	frames := make([][2]float64, len(samples)/channels)
	for i := range frames {
		base := i * channels
		if channels == 1 {
			frames[i] = [2]float64{samples[base], samples[base]}
		} else {
			frames[i] = [2]float64{samples[base], samples[base+1]}
		}
	}
	return frames
}

// formatFor caps the channel count at stereo
func formatFor(sampleRate, channels int) audio.Format {
	if channels > 2 {
		channels = 2
	}
	return audio.Format{SampleRate: sampleRate, Channels: channels}
}

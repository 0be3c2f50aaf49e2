// ABOUTME: Audio decoder package for loading sound assets
// ABOUTME: Provides Decoder interface and implementations for WAV, MP3, Ogg Vorbis, FLAC, Opus and raw PCM
// Package decode turns audio files into sounds.
//
// Supports: WAV, MP3, Ogg Vorbis, FLAC, Ogg Opus and headerless 16-bit PCM.
//
// Decoders read a whole file and return stereo frames in [-1, 1] along
// with the native sample rate and channel count. Files with more than
// two channels keep their front pair.
//
// Example:
//
//	snd, err := decode.LoadFile("assets/sounds/jump.ogg")
//	if errors.Is(err, decode.ErrNotFound) {
//	    // substitute a fallback
//	}
package decode

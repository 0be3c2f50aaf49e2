// ABOUTME: Audio output package for playing mixed audio on devices
// ABOUTME: Provides the Output interface and malgo, oto, pulse, speaker, PortAudio, WAV recording and null backends
// Package output provides audio playback backends.
//
// Every backend enumerates its playback devices and pulls stereo frames
// from a beep.Streamer once opened. Close stops the stream but keeps the
// backend usable, so a caller can reopen on another device.
//
// Example:
//
//	out := output.NewMalgo()
//	devices, err := out.Devices()
//	err = out.Open(devices[0], 48000, mixer)
//	defer out.Shutdown()
package output

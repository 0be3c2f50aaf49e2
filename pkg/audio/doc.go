// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Sound, Song, Format and Vec3 plus sample conversion functions
// Package audio provides the decoded resources the sound system plays.
//
// This package defines core types used throughout the engine's audio code:
//   - Format: Describes decoded PCM layout (sample rate, channels)
//   - Sound: An immutable decoded buffer backed by a beep.Buffer
//   - Song: An optional intro plus a looping body
//   - Vec3: World-space positions for 3D voices
//
// Example:
//
//	frames := make([][2]float64, 4800)
//	s, err := audio.NewSound("click", audio.Format{SampleRate: 48000, Channels: 1}, frames)
//
//	// The fallback tone is always available
//	fallback := audio.Beep(48000)
package audio

// ABOUTME: Sound system package for voice pooling, music and device migration
// ABOUTME: Exposes the System facade the engine plays sounds and music through
// Package sound manages every playback voice of the engine.
//
// A System owns a fixed pool of MaxVoices general voices plus one reserved
// music voice, all living in the context of the currently open output
// device. Sounds are played by name from a Registry; a missing name plays
// the built-in fallback tone instead. When the pool is exhausted the voice
// with the lowest gain is stolen.
//
// Switching output devices snapshots every voice, destroys the context,
// opens a new one on the target device and restores each voice at the
// same sample offset and transport state.
//
// The System is not safe for concurrent use. Call it from the thread that
// runs the game's update loop.
//
// Example:
//
//	reg := sound.NewRegistry(44100)
//	reg.LoadSound("assets/sounds/jump.ogg")
//
//	sys, err := sound.New(sound.DefaultConfig(), output.NewMalgo(), reg)
//	if err != nil {
//	    log.Fatalf("Failed to start audio: %v", err)
//	}
//	h := sys.PlaySound("jump", false)
//	sys.SetVoiceState(h, sound.Paused)
//	sys.SwitchDevice(sound.Next)
package sound

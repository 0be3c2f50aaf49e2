// ABOUTME: Software spatial audio API package
// ABOUTME: Provides contexts, sources and buffers mixed into a beep.Streamer
// Package al implements a small stateful audio API in software.
//
// A Context is the live connection to one output device. Sources are
// playback units that either hold a single static buffer or a queue of
// streaming buffers, and buffers are decoded sounds uploaded into the
// context. Every id is only valid for the context that issued it, so
// destroying a context invalidates all of its sources and buffers.
//
// Errors follow a polled model: operations never return errors, they
// record the first failure, which GetError returns and clears.
//
// Example:
//
//	ctx, err := al.NewContext(48000)
//	src := ctx.GenSource()
//	ctx.SetBuffer(src, ctx.Buffer(sound))
//	ctx.Play(src)
//	if e := ctx.GetError(); e != al.NoError {
//	    log.Printf("Warning: audio error: %v", e)
//	}
//
// The context implements beep.Streamer so an output backend can pull
// mixed frames from it.
package al

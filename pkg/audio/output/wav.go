// ABOUTME: WAV file recording output implementation
// ABOUTME: Writes the mixed stream to a 16-bit PCM WAV file instead of a device
package output

import (
	"fmt"
	"os"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep/v2"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
)

// DefaultWAVPath is where the wav backend records when no path is given
const DefaultWAVPath = "xjge-audio.wav"

// wavBlock is the pacing interval of realtime recording
const wavBlock = 10 * time.Millisecond

// WAV output that records to a file. The file stays open across device
// switches and is finalized by Shutdown.
type WAV struct {
	path     string
	realtime bool

	mu      sync.Mutex
	file    *os.File
	enc     *wav.Encoder
	rate    int
	pull    *puller
	stop    chan struct{}
	done    chan struct{}
	written int
}

// NewWAV creates a recorder writing to path. Realtime recorders pull audio
// at the sample rate on their own; others are driven by Render.
func NewWAV(path string, realtime bool) *WAV {
	if path == "" {
		path = DefaultWAVPath
	}
	return &WAV{path: path, realtime: realtime}
}

// Name returns the backend name
func (w *WAV) Name() string {
	return "wav"
}

// Devices returns the recording target as the only device
func (w *WAV) Devices() ([]Device, error) {
	return []Device{{ID: "wav", Name: w.path, Default: true}}, nil
}

// Open starts recording src
func (w *WAV) Open(dev Device, sampleRate int, src beep.Streamer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dev.ID != "wav" {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, dev.ID)
	}
	if w.enc != nil && w.rate != sampleRate {
		return fmt.Errorf("failed to reopen recording at %d Hz: file is %d Hz", sampleRate, w.rate)
	}

	if w.enc == nil {
		f, err := os.Create(w.path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", w.path, err)
		}
		w.file = f
		w.enc = wav.NewEncoder(f, sampleRate, 16, Channels, 1)
		w.rate = sampleRate
	}
	w.pull = newPuller(src)

	if w.realtime {
		w.stop = make(chan struct{})
		w.done = make(chan struct{})
		go w.pace(w.stop, w.done)
	}
	return nil
}

// pace records one block per interval until stopped
func (w *WAV) pace(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(wavBlock)
	defer ticker.Stop()

	frames := int(float64(w.rate) * wavBlock.Seconds())
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := w.Render(frames); err != nil {
				return
			}
		}
	}
}

// Render pulls frames from the open stream and appends them to the file
func (w *WAV) Render(frames int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pull == nil {
		return ErrNotOpen
	}

	buf := w.pull.frames(frames)
	data := make([]int, 0, len(buf)*Channels)
	for _, f := range buf {
		data = append(data, int(audio.SampleToInt16(f[0])), int(audio.SampleToInt16(f[1])))
	}

	err := w.enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: Channels, SampleRate: w.rate},
		Data:           data,
		SourceBitDepth: 16,
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", w.path, err)
	}
	w.written += len(buf)
	return nil
}

// Written returns the number of frames recorded so far
func (w *WAV) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Close stops pulling from the stream and keeps the file open
func (w *WAV) Close() error {
	w.mu.Lock()
	if w.pull == nil {
		w.mu.Unlock()
		return ErrNotOpen
	}
	w.pull = nil
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

// Shutdown finalizes the WAV header and closes the file
func (w *WAV) Shutdown() error {
	if err := w.Close(); err != nil && err != ErrNotOpen {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil {
		return nil
	}
	err := w.enc.Close()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.enc, w.file = nil, nil
	if err != nil {
		return fmt.Errorf("failed to finalize %s: %w", w.path, err)
	}
	return nil
}

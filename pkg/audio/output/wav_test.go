// ABOUTME: WAV recording output tests
// ABOUTME: Records a constant stream and decodes the resulting file
package output

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/decode"
)

// constFrame streams the same stereo frame forever
type constFrame [2]float64

func (c constFrame) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = c
	}
	return len(samples), true
}

func (c constFrame) Err() error { return nil }

func TestWAVDevices(t *testing.T) {
	w := NewWAV("", false)
	devices, err := w.Devices()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "wav" || devices[0].Name != DefaultWAVPath {
		t.Errorf("expected single wav device, got %v", devices)
	}
}

func TestWAVRecordsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w := NewWAV(path, false)
	dev := Device{ID: "wav"}

	if err := w.Render(10); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen before Open, got %v", err)
	}

	if err := w.Open(dev, 8000, constFrame{0.5, -0.5}); err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	if err := w.Render(100); err != nil {
		t.Fatalf("failed to render: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	if err := w.Open(dev, 16000, constFrame{}); err == nil {
		t.Error("expected error reopening at a different rate")
	}
	if err := w.Open(dev, 8000, beep.Silence(-1)); err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	if err := w.Render(50); err != nil {
		t.Fatalf("failed to render: %v", err)
	}
	if w.Written() != 150 {
		t.Errorf("expected 150 frames written, got %d", w.Written())
	}
	if err := w.Shutdown(); err != nil {
		t.Fatalf("failed to shut down: %v", err)
	}

	snd, err := decode.LoadFile(path)
	if err != nil {
		t.Fatalf("failed to decode recording: %v", err)
	}
	if snd.Format.SampleRate != 8000 || snd.Format.Channels != 2 {
		t.Errorf("expected 8000 Hz stereo, got %+v", snd.Format)
	}
	if snd.Frames() != 150 {
		t.Errorf("expected 150 frames, got %d", snd.Frames())
	}
}

func TestWAVUnknownDevice(t *testing.T) {
	w := NewWAV(filepath.Join(t.TempDir(), "out.wav"), false)
	if err := w.Open(Device{ID: "default"}, 8000, constFrame{}); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("expected ErrUnknownDevice, got %v", err)
	}
	if err := w.Shutdown(); err != nil {
		t.Errorf("expected shutdown without a file to succeed, got %v", err)
	}
}

// ABOUTME: Shared helpers for sound system tests
// ABOUTME: Builds headless systems and captures log output
package sound

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/output"
)

const testRate = 1000

func testSound(t *testing.T, name string, frames int) *audio.Sound {
	t.Helper()

	data := make([][2]float64, frames)
	for i := range data {
		data[i] = [2]float64{0.1, 0.1}
	}
	s, err := audio.NewSound(name, audio.Format{SampleRate: testRate, Channels: 1}, data)
	if err != nil {
		t.Fatalf("failed to create sound: %v", err)
	}
	return s
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	reg := NewRegistry(testRate)
	reg.AddSound(testSound(t, "click", 1000))
	reg.AddSound(testSound(t, "explosion", 2000))
	reg.AddSong(&audio.Song{Name: "theme", Intro: testSound(t, "theme_intro", 100), Body: testSound(t, "theme_body", 100)})
	reg.AddSong(&audio.Song{Name: "ambient", Body: testSound(t, "ambient_body", 100)})
	return reg
}

// fatalRecorder stands in for log.Fatalf
type fatalRecorder struct {
	calls []string
}

func (f *fatalRecorder) fatalf(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func newTestSystem(t *testing.T, devices ...output.Device) (*System, *output.Null, *fatalRecorder) {
	t.Helper()

	out := output.NewNull(devices...)
	fatal := &fatalRecorder{}

	cfg := DefaultConfig()
	cfg.SampleRate = testRate
	cfg.Fatalf = fatal.fatalf

	sys, err := New(cfg, out, testRegistry(t))
	if err != nil {
		t.Fatalf("failed to create system: %v", err)
	}
	return sys, out, fatal
}

// captureLog redirects the standard logger for the rest of the test
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func countWarnings(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "Warning:")
}

// corruptFile writes an undecodable asset named name into a temp dir
func corruptFile(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not audio data"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

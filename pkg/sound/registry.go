// ABOUTME: Name to resource registries for sounds and songs
// ABOUTME: Loads assets from disk and substitutes the fallback tone on failure
package sound

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/decode"
	"github.com/samber/lo"
)

// Registry maps names to decoded sounds and songs. It always holds the
// fallback sound under audio.FallbackName.
type Registry struct {
	sounds   map[string]*audio.Sound
	songs    map[string]*audio.Song
	fallback *audio.Sound
}

// NewRegistry creates a registry holding only the fallback tone
func NewRegistry(sampleRate int) *Registry {
	fallback := audio.Beep(sampleRate)
	return &Registry{
		sounds:   map[string]*audio.Sound{audio.FallbackName: fallback},
		songs:    make(map[string]*audio.Song),
		fallback: fallback,
	}
}

// Fallback returns the built-in fallback sound
func (r *Registry) Fallback() *audio.Sound {
	return r.fallback
}

// AddSound registers s under its name, replacing any previous entry
func (r *Registry) AddSound(s *audio.Sound) {
	r.sounds[s.Name] = s
}

// AddSong registers s under its name, replacing any previous entry
func (r *Registry) AddSong(s *audio.Song) {
	r.songs[s.Name] = s
}

// Sound looks up a sound by name
func (r *Registry) Sound(name string) (*audio.Sound, bool) {
	s, ok := r.sounds[name]
	return s, ok
}

// Song looks up a song by name
func (r *Registry) Song(name string) (*audio.Song, bool) {
	s, ok := r.songs[name]
	return s, ok
}

// FreeSound removes a sound. The fallback cannot be freed.
func (r *Registry) FreeSound(name string) {
	if name == audio.FallbackName {
		log.Printf("Warning: refusing to free the fallback sound")
		return
	}
	delete(r.sounds, name)
}

// FreeSong removes a song
func (r *Registry) FreeSong(name string) {
	delete(r.songs, name)
}

// SoundNames returns every registered sound name in sorted order
func (r *Registry) SoundNames() []string {
	names := lo.Keys(r.sounds)
	sort.Strings(names)
	return names
}

// SongNames returns every registered song name in sorted order
func (r *Registry) SongNames() []string {
	names := lo.Keys(r.songs)
	sort.Strings(names)
	return names
}

// LoadSound decodes a file and registers it under its base name. If the
// file cannot be decoded the fallback data is registered under that name.
func (r *Registry) LoadSound(path string) *audio.Sound {
	s, err := decode.LoadFile(path)
	if err != nil {
		name := baseName(path)
		log.Printf("Warning: failed to load sound %s, using %q: %v", path, audio.FallbackName, err)
		s = r.renamedFallback(name)
	}
	r.AddSound(s)
	return s
}

// LoadSong decodes an optional intro and a body into a song. A missing
// intro drops the intro; a missing body is replaced by the fallback data.
func (r *Registry) LoadSong(name, introPath, bodyPath string) *audio.Song {
	var intro *audio.Sound
	if introPath != "" {
		s, err := decode.LoadFile(introPath)
		if err != nil {
			log.Printf("Warning: failed to load intro of song %s, playing without it: %v", name, err)
		} else {
			intro = s
		}
	}

	body, err := decode.LoadFile(bodyPath)
	if err != nil {
		log.Printf("Warning: failed to load song %s, using %q: %v", name, audio.FallbackName, err)
		body = r.renamedFallback(name)
	}

	song := &audio.Song{Name: name, Intro: intro, Body: body}
	r.AddSong(song)
	return song
}

// LoadDir registers every decodable file directly inside dir as a sound
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read sound directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !decode.Supported(entry.Name()) {
			continue
		}
		r.LoadSound(filepath.Join(dir, entry.Name()))
		loaded++
	}
	return loaded, nil
}

// introSuffix marks a file as the intro of the song sharing its base name
const introSuffix = "_intro"

// LoadSongDir registers every decodable file directly inside dir as a song.
// A file named <song>_intro.<ext> becomes the intro of <song>.
func (r *Registry) LoadSongDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read music directory: %w", err)
	}

	bodies := make(map[string]string)
	intros := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !decode.Supported(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		name := baseName(path)
		if song, ok := strings.CutSuffix(name, introSuffix); ok {
			intros[song] = path
			continue
		}
		bodies[name] = path
	}

	names := make([]string, 0, len(bodies))
	for name := range bodies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r.LoadSong(name, intros[name], bodies[name])
	}
	for song, path := range intros {
		if _, ok := bodies[song]; !ok {
			log.Printf("Warning: intro %s has no body, skipping", path)
		}
	}
	return len(names), nil
}

// renamedFallback returns the fallback data under another name, marked as
// a substitute
func (r *Registry) renamedFallback(name string) *audio.Sound {
	s := *r.fallback
	s.Name = name
	s.Substitute = true
	return &s
}

func baseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

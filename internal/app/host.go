// ABOUTME: Demo host application orchestration
// ABOUTME: Wires the sound system, game loop, console, TUI and remote console
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/XJGE/XJGE-legacy-sub000/internal/console"
	"github.com/XJGE/XJGE-legacy-sub000/internal/loop"
	"github.com/XJGE/XJGE-legacy-sub000/internal/remote"
	"github.com/XJGE/XJGE-legacy-sub000/internal/settings"
	"github.com/XJGE/XJGE-legacy-sub000/internal/ui"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/output"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/sound"
)

// Config holds host configuration
type Config struct {
	Assets       string
	Output       string
	Device       string
	Music        string
	SettingsPath string

	// Negative volumes keep the persisted value
	EffectsVolume float64
	MusicVolume   float64

	TickRate     int
	UseTUI       bool
	ConsolePort  int
	EnableMDNS   bool
	StrictErrors bool
	Name         string
}

// Host runs the audio system on a fixed timestep game loop
type Host struct {
	config  Config
	sys     *sound.System
	console *console.Console
	loop    *loop.Loop
	remote  *remote.Server
	tui     *ui.TUI
	wg      sync.WaitGroup
}

// New creates a host on the named output backend
func New(config Config) (*Host, error) {
	out, err := output.New(config.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return NewWithOutput(config, out)
}

// NewWithOutput creates a host on out
func NewWithOutput(config Config, out output.Output) (*Host, error) {
	prefs := settings.Default()
	if config.SettingsPath != "" {
		loaded, err := settings.Load(config.SettingsPath)
		if err != nil {
			log.Printf("Warning: %v, using defaults", err)
		}
		prefs = loaded
	}
	if config.Device != "" {
		prefs.Device = config.Device
	}
	if config.EffectsVolume >= 0 {
		prefs.EffectsVolume = config.EffectsVolume
	}
	if config.MusicVolume >= 0 {
		prefs.MusicVolume = config.MusicVolume
	}

	cfg := sound.DefaultConfig()
	prefs.Apply(&cfg)
	if config.StrictErrors {
		cfg.ErrorPolicy = sound.FatalOnError
	}

	reg := sound.NewRegistry(cfg.SampleRate)
	if config.Assets != "" {
		loadAssets(reg, config.Assets)
	}

	sys, err := sound.New(cfg, out, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to start audio: %w", err)
	}

	h := &Host{
		config:  config,
		sys:     sys,
		console: console.New(sys),
	}
	h.loop = loop.New(config.TickRate, h.Tick)

	if config.Music != "" {
		sys.PlayMusic(config.Music)
	}
	return h, nil
}

// loadAssets registers sounds from dir/sounds and songs from dir/music
func loadAssets(reg *sound.Registry, dir string) {
	if n, err := reg.LoadDir(filepath.Join(dir, "sounds")); err != nil {
		log.Printf("Warning: %v", err)
	} else {
		log.Printf("Loaded %d sounds from %s", n, dir)
	}
	if n, err := reg.LoadSongDir(filepath.Join(dir, "music")); err != nil {
		log.Printf("Warning: %v", err)
	} else {
		log.Printf("Loaded %d songs from %s", n, dir)
	}
}

// System returns the audio system
func (h *Host) System() *sound.System {
	return h.sys
}

// Console returns the debug console
func (h *Host) Console() *console.Console {
	return h.console
}

// Tick runs one frame of audio housekeeping. The demo host has no scene, so
// positioned voices are updated without cameras.
func (h *Host) Tick() {
	h.console.Drain()
	h.sys.CheckIntroFinished()
	h.sys.Update(nil)
}

// Run drives the game loop until ctx is done or the TUI quits
func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if h.config.ConsolePort > 0 {
		h.remote = remote.New(remote.Config{
			Port:       h.config.ConsolePort,
			Name:       h.config.Name,
			EnableMDNS: h.config.EnableMDNS,
		}, h.console)

		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			if err := h.remote.Start(); err != nil {
				log.Printf("Remote console stopped: %v", err)
			}
		}()
	}

	if h.config.UseTUI {
		h.tui = ui.New(h.console)

		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			if err := h.tui.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			cancel()
		}()

		go func() {
			select {
			case <-h.tui.QuitChan():
				log.Printf("Received quit signal from TUI")
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	log.Printf("Audio running on %s at %v per tick", h.sys.Devices().Current().Name, h.loop.Period())
	h.loop.Run(ctx)

	if h.tui != nil {
		h.tui.Stop()
	}
	if h.remote != nil {
		h.remote.Stop()
	}
	h.wg.Wait()

	stats := h.loop.Stats()
	log.Printf("Game loop stopped after %d ticks (%d dropped)", stats.Ticks, stats.Dropped)
	return nil
}

// Close persists settings and shuts down audio
func (h *Host) Close() error {
	var errs []error
	if h.config.SettingsPath != "" {
		if err := settings.Capture(h.sys).Save(h.config.SettingsPath); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.sys.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ABOUTME: Entry point for the XJGE audio demo host
// ABOUTME: Parses CLI flags and runs the sound system on a fixed timestep loop
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/XJGE/XJGE-legacy-sub000/internal/app"
	"github.com/XJGE/XJGE-legacy-sub000/internal/loop"
	"github.com/XJGE/XJGE-legacy-sub000/internal/version"
)

var (
	assets        = flag.String("assets", "assets", "Asset directory with sounds/ and music/ subdirectories")
	outputName    = flag.String("output", "malgo", "Output backend: malgo, oto, pulse, speaker, portaudio, null, wav[:path]")
	device        = flag.String("device", "", "Output device id (default: saved or system default)")
	music         = flag.String("music", "", "Song to play on startup")
	effectsVolume = flag.Float64("effects-volume", -1, "Effects volume (default: saved value)")
	musicVolume   = flag.Float64("music-volume", -1, "Music volume (default: saved value)")
	settingsPath  = flag.String("settings", defaultSettingsPath(), "Settings file path")
	tickRate      = flag.Int("tick-rate", loop.DefaultRate, "Game loop ticks per second")
	logFile       = flag.String("log-file", "xjge-audio.log", "Log file path")
	noTUI         = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	consolePort   = flag.Int("console-port", 8928, "Remote console port (0 disables)")
	noMDNS        = flag.Bool("no-mdns", false, "Do not advertise the remote console via mDNS")
	strictErrors  = flag.Bool("strict-errors", false, "Terminate on any audio device error")
	name          = flag.String("name", "", "Console name (default: hostname-xjge-audio)")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	consoleName := *name
	if consoleName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		consoleName = fmt.Sprintf("%s-xjge-audio", hostname)
	}

	log.Printf("Starting %s %s: %s", version.Product, version.Version, consoleName)

	host, err := app.New(app.Config{
		Assets:        *assets,
		Output:        *outputName,
		Device:        *device,
		Music:         *music,
		SettingsPath:  *settingsPath,
		EffectsVolume: *effectsVolume,
		MusicVolume:   *musicVolume,
		TickRate:      *tickRate,
		UseTUI:        useTUI,
		ConsolePort:   *consolePort,
		EnableMDNS:    !*noMDNS,
		StrictErrors:  *strictErrors,
		Name:          consoleName,
	})
	if err != nil {
		log.Fatalf("Failed to start audio: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := host.Run(ctx); err != nil {
		log.Printf("Host error: %v", err)
	}

	if err := host.Close(); err != nil {
		log.Printf("Error closing audio: %v", err)
	}
	log.Printf("Audio stopped")
}

// defaultSettingsPath returns the per-user settings file, or a local one
func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "xjge-audio.json"
	}
	return filepath.Join(dir, "xjge", "audio.json")
}

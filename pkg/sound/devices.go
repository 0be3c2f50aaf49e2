// ABOUTME: Output device manager owning the context lifecycle
// ABOUTME: Enumerates devices and migrates every voice across device switches
package sound

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/al"
	"github.com/XJGE/XJGE-legacy-sub000/pkg/audio/output"
	"github.com/samber/lo"
)

// Selector names the device a switch targets: Next, Prev or a device id
type Selector string

const (
	Next Selector = "next"
	Prev Selector = "prev"
)

// Devices owns the output backend, the device list and the live context
type Devices struct {
	out        output.Output
	rate       int
	list       []output.Device
	current    output.Device
	ctx        *al.Context
	generation int
}

func newDevices(out output.Output, sampleRate int) *Devices {
	return &Devices{out: out, rate: sampleRate}
}

// Enumerate refreshes the device list, sorted by id
func (d *Devices) Enumerate() ([]output.Device, error) {
	devices, err := d.out.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s devices: %w", d.out.Name(), err)
	}
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	d.list = devices
	return append([]output.Device(nil), devices...), nil
}

// List returns the device list from the last enumeration
func (d *Devices) List() []output.Device {
	return append([]output.Device(nil), d.list...)
}

// Current returns the device the context is open on
func (d *Devices) Current() output.Device {
	return d.current
}

// Context returns the live context
func (d *Devices) Context() *al.Context {
	return d.ctx
}

// Generation counts the contexts created so far
func (d *Devices) Generation() int {
	return d.generation
}

// Open creates the first context on the preferred device, falling back to
// the default device and then the first listed one
func (d *Devices) Open(preferred string) (*al.Context, error) {
	if len(d.list) == 0 {
		if _, err := d.Enumerate(); err != nil {
			return nil, err
		}
	}

	dev, ok := lo.Find(d.list, func(dev output.Device) bool { return dev.ID == preferred })
	if !ok {
		if preferred != "" {
			log.Printf("Warning: preferred audio device %q not found, using default", preferred)
		}
		dev, ok = lo.Find(d.list, func(dev output.Device) bool { return dev.Default })
		if !ok {
			dev = d.list[0]
		}
	}
	return d.openOn(dev)
}

// openOn creates a context and starts the backend streaming it on dev
func (d *Devices) openOn(dev output.Device) (*al.Context, error) {
	ctx, err := al.NewContext(d.rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextCreate, err)
	}

	if err := d.out.Open(dev, d.rate, ctx); err != nil {
		ctx.Close()
		return nil, fmt.Errorf("%w on %s: %v", ErrContextCreate, dev.ID, err)
	}

	d.ctx = ctx
	d.current = dev
	d.generation++
	log.Printf("Audio context %d open on %s (%s)", d.generation, dev.Name, dev.ID)
	return ctx, nil
}

// Resolve maps a selector onto the current device list. Next and Prev wrap
// around the sorted ids; when the current device is gone they step from
// where it would have been.
func (d *Devices) Resolve(sel Selector) (output.Device, error) {
	if len(d.list) == 0 {
		return output.Device{}, ErrNoDevices
	}

	switch Selector(strings.ToLower(string(sel))) {
	case Next, Prev:
	default:
		dev, ok := lo.Find(d.list, func(dev output.Device) bool { return dev.ID == string(sel) })
		if !ok {
			return output.Device{}, fmt.Errorf("%w: %s", ErrUnknownDevice, sel)
		}
		return dev, nil
	}

	ids := lo.Map(d.list, func(dev output.Device, _ int) string { return dev.ID })
	n := len(ids)
	i := lo.IndexOf(ids, d.current.ID)

	var next, prev int
	if i >= 0 {
		next, prev = (i+1)%n, (i-1+n)%n
	} else {
		at := sort.SearchStrings(ids, d.current.ID)
		next, prev = at%n, (at-1+n)%n
	}

	if Selector(strings.ToLower(string(sel))) == Next {
		return d.list[next], nil
	}
	return d.list[prev], nil
}

// Switch migrates every voice to the device sel resolves to. An unknown
// device aborts before anything is torn down.
func (d *Devices) Switch(sel Selector, pool *Pool, music *Music) error {
	voices := pool.Snapshot()
	tune := music.Snapshot()

	if _, err := d.Enumerate(); err != nil {
		return err
	}

	target, err := d.Resolve(sel)
	if err != nil {
		if errors.Is(err, ErrUnknownDevice) {
			log.Printf("Warning: unknown audio device %q, keeping %s", sel, d.current.Name)
		}
		return err
	}

	if err := d.out.Close(); err != nil && !errors.Is(err, output.ErrNotOpen) {
		log.Printf("Warning: failed to close %s: %v", d.current.Name, err)
	}
	d.ctx.Close()

	ctx, err := d.openOn(target)
	if err != nil {
		return err
	}

	pool.Restore(ctx, voices)
	music.Restore(ctx, tune)
	log.Printf("Switched audio output to %s", target.Name)
	return nil
}

// Close stops the stream and destroys the context
func (d *Devices) Close() error {
	if err := d.out.Close(); err != nil && !errors.Is(err, output.ErrNotOpen) {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if d.ctx != nil {
		d.ctx.Close()
	}
	return d.out.Shutdown()
}

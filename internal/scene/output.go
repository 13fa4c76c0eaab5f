// Package scene implements output inventory, per-output damage
// tracking, repaint scheduling tied to vblank, and presentation feedback.
package scene

import "github.com/novawl/compositor/internal/surface"

// Mode is a display timing triple, per §3/GLOSSARY.
type Mode struct {
	Width, Height int32
	RefreshMHz    int32 // refresh rate in milli-Hz, matching wl_output.mode's units
}

// RefreshInterval returns the nominal inter-vblank interval for this mode
// in nanoseconds (used by the frame-pacing budget).
func (m Mode) RefreshInterval() int64 {
	if m.RefreshMHz <= 0 {
		return 0
	}
	return 1_000_000_000_000 / int64(m.RefreshMHz)
}

// Output represents one display connector (§3).
type Output struct {
	Name          string
	PhysWidthMM   int32
	PhysHeightMM  int32
	Mode          Mode
	Scale         float64
	Subpixel      int32
	LogicalX      int32
	LogicalY      int32

	Presented []surface.ID // surfaces this frame composed onto this output

	damage    DamageTracker
	scheduler *Scheduler
}

// NewOutput constructs an output and its repaint scheduler.
func NewOutput(name string, mode Mode, scale float64, x, y int32) *Output {
	o := &Output{Name: name, Mode: mode, Scale: scale, LogicalX: x, LogicalY: y}
	o.scheduler = NewScheduler(o)
	return o
}

// Scheduler returns the output's repaint state machine.
func (o *Output) Scheduler() *Scheduler { return o.scheduler }

// GlobalBounds returns the output's extent in global compositor
// coordinates, used to intersect surface damage against it (§4.3 step 4).
func (o *Output) GlobalBounds() surface.Rect {
	w := int32(float64(o.Mode.Width) / o.Scale)
	h := int32(float64(o.Mode.Height) / o.Scale)
	return surface.Rect{X: o.LogicalX, Y: o.LogicalY, W: w, H: h}
}

// Inventory tracks all currently-connected outputs, keyed by name.
type Inventory struct {
	outputs map[string]*Output
}

// NewInventory creates an empty output inventory.
func NewInventory() *Inventory {
	return &Inventory{outputs: make(map[string]*Output)}
}

// Add registers a newly hotplugged output (§4.6: "On device add:
// construct an Output, advertise globals, apply configured mode" — the
// registry/global advertisement itself is the caller's job).
func (inv *Inventory) Add(o *Output) {
	inv.outputs[o.Name] = o
}

// Remove unregisters an output on disconnect. The caller is responsible
// for unmapping surfaces exclusive to it and emitting global_remove
// before calling this (§4.6).
func (inv *Inventory) Remove(name string) {
	delete(inv.outputs, name)
}

// All returns every connected output.
func (inv *Inventory) All() []*Output {
	out := make([]*Output, 0, len(inv.outputs))
	for _, o := range inv.outputs {
		out = append(out, o)
	}
	return out
}

// Get resolves an output by name.
func (inv *Inventory) Get(name string) (*Output, bool) {
	o, ok := inv.outputs[name]
	return o, ok
}

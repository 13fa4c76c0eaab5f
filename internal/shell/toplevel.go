// Package shell implements the xdg_surface configure-ack cycle for
// toplevels and popups, the popup positioner's constraint-adjustment
// algorithm, and layer-shell anchor/exclusive-zone arithmetic.
package shell

import (
	"github.com/novawl/compositor/internal/errs"
	"github.com/novawl/compositor/internal/surface"
)

// ConfigureState tracks xdg_surface's configure-ack handshake (§6
// "unconfigured_buffer" error: a surface must be configured before it
// may attach a buffer).
type ConfigureState struct {
	lastSerial   uint32
	ackedSerial  uint32
	configured   bool
	pendingAcks  []uint32
}

// Configure mints a new configure serial for this surface and records it
// as outstanding until acknowledged.
func (c *ConfigureState) Configure(serial uint32) {
	c.lastSerial = serial
	c.pendingAcks = append(c.pendingAcks, serial)
}

// Ack processes xdg_surface.ack_configure. Any outstanding serial may be
// acked, so a client can skip intermediate configures; acking a serial
// also retires every older outstanding one. Acking a serial that is not
// outstanding (never sent, already acked, or retired) is a protocol
// error.
func (c *ConfigureState) Ack(serial uint32) error {
	found := false
	kept := c.pendingAcks[:0]
	for _, s := range c.pendingAcks {
		if s == serial {
			found = true
			continue
		}
		if s < serial {
			continue // superseded by a later ack, drop silently
		}
		kept = append(kept, s)
	}
	c.pendingAcks = kept
	if !found {
		return &errs.Protocol{Interface: "xdg_surface", Code: 0, Message: "ack_configure for unknown serial"}
	}
	c.ackedSerial = serial
	c.configured = true
	return nil
}

// RequireConfigured enforces §6's unconfigured_buffer error: a commit
// that attaches a buffer before the first ack_configure is a protocol
// violation.
func (c *ConfigureState) RequireConfigured() error {
	if !c.configured {
		return &errs.Protocol{Interface: "xdg_surface", Code: 3, Message: "buffer attached before initial ack_configure"}
	}
	return nil
}

// ToplevelState is the xdg_toplevel role's state, built on a surface.ID
// in the shared arena-indexed surface tree.
type ToplevelState struct {
	Surface   surface.ID
	Configure ConfigureState

	Title     string
	AppID     string
	Parent    surface.ID // NoID if top-level
	MinW, MinH int32
	MaxW, MaxH int32

	Maximized  bool
	Fullscreen bool
	Resizing   bool
	Activated  bool
}

// NewToplevel constructs toplevel role state bound to an already-created
// surface in the tree (role assignment on the surface itself happens at
// the caller via surface.Surface.SetRole, per the once-set invariant).
func NewToplevel(id surface.ID) *ToplevelState {
	return &ToplevelState{Surface: id, Parent: surface.NoID}
}

// RequestSize asks the client to resize via a new configure; states
// (maximized/fullscreen/resizing/activated) are folded into the sent
// configure event by the caller, which owns wire encoding.
func (t *ToplevelState) RequestSize(serial uint32, w, h int32) {
	t.Configure.Configure(serial)
	_ = w
	_ = h
}

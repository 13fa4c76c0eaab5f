// Package selection implements data source/offer pairing for clipboard
// selections and drag-and-drop, and the fd-pipe payload transfer
// described in §4.9.
package selection

import "github.com/novawl/compositor/internal/surface"

// Source is a client-owned clipboard or drag payload, advertising the
// mime types it can produce.
type Source struct {
	MimeTypes []string
	cancelled bool

	// onSend is invoked when a destination requests a mime type; the
	// caller supplies the write end of a pipe and the requested type, and
	// the server-side wire adapter forwards this to the owning client as
	// wl_data_source.send.
	onSend   func(mimeType string, writeFD int)
	onCancel func()
}

// NewSource constructs a source advertising the given mime types.
func NewSource(mimeTypes []string, onSend func(string, int), onCancel func()) *Source {
	return &Source{MimeTypes: mimeTypes, onSend: onSend, onCancel: onCancel}
}

// Offers a mime type, the server's mechanism for asking the client to
// write the offer payload into writeFD; the caller closes writeFD after
// the client signals completion or the pipe breaks (§4.9 failure
// semantics).
func (s *Source) Send(mimeType string, writeFD int) {
	if s.cancelled || s.onSend == nil {
		return
	}
	s.onSend(mimeType, writeFD)
}

// Cancel fires cancelled exactly once, used both for explicit cancel (DnD
// abort) and for the stale-offer and broken-pipe failure paths (§4.9).
func (s *Source) Cancel() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	if s.onCancel != nil {
		s.onCancel()
	}
}

// Offer is the destination-facing view of a Source, handed to a specific
// client when a selection becomes active or a drag enters one of its
// surfaces.
type Offer struct {
	source *Source
	stale  bool
}

// NewOffer wraps source for presentation to a destination client.
func NewOffer(source *Source) *Offer {
	return &Offer{source: source}
}

// Receive requests mimeType be written into writeFD. A stale offer (one
// superseded by a newer selection, per §4.9) is a no-op.
func (o *Offer) Receive(mimeType string, writeFD int) {
	if o.stale {
		return
	}
	o.source.Send(mimeType, writeFD)
}

// MarkStale invalidates the offer; any further Receive is ignored and the
// underlying source is cancelled (§4.9 "Stale offers... are destroyed
// with cancelled").
func (o *Offer) MarkStale() {
	if o.stale {
		return
	}
	o.stale = true
	o.source.Cancel()
}

// Selection binds a source to one seat's clipboard slot.
type Selection struct {
	seat   string
	source *Source
}

// Device tracks one seat's current clipboard selection and any
// in-progress drag-and-drop operation.
type Device struct {
	seat      string
	selection *Selection
	drag      *Drag
}

// NewDevice constructs a data device for one seat.
func NewDevice(seat string) *Device {
	return &Device{seat: seat}
}

// SetSelection replaces the current clipboard selection, marking the
// previous source's offers stale (§4.9: "Stale offers (outlived by a
// newer selection) are destroyed with cancelled").
func (d *Device) SetSelection(source *Source) {
	if d.selection != nil && d.selection.source != nil {
		d.selection.source.Cancel()
	}
	if source == nil {
		d.selection = nil
		return
	}
	d.selection = &Selection{seat: d.seat, source: source}
}

// CurrentOffer returns a fresh Offer for the active selection, or nil if
// there is none.
func (d *Device) CurrentOffer() *Offer {
	if d.selection == nil {
		return nil
	}
	return NewOffer(d.selection.source)
}

// DragPhase tracks a drag-and-drop operation's lifecycle.
type DragPhase int

const (
	DragActive DragPhase = iota
	DragDropped
	DragCancelled
)

// Drag is an in-progress drag-and-drop operation (§4.9).
type Drag struct {
	Origin surface.ID
	Icon   surface.ID // NoID if no drag icon
	Source *Source

	phase   DragPhase
	focus   surface.ID
	hasFocus bool
}

// BeginDrag starts a drag-and-drop operation originating from origin,
// optionally carrying an icon surface.
func (d *Device) BeginDrag(origin, icon surface.ID, source *Source) *Drag {
	drag := &Drag{Origin: origin, Icon: icon, Source: source}
	d.drag = drag
	return drag
}

// Drag returns the seat's in-progress drag, or nil.
func (d *Device) Drag() *Drag { return d.drag }

// Enter notifies the drag that the pointer entered surf, emitting
// leave-then-enter when surf changes from the prior focus (mirroring
// §4.5's keyboard/pointer focus handover discipline).
func (g *Drag) Enter(surf surface.ID) (leave, enter bool) {
	if g.hasFocus && g.focus == surf {
		return false, false
	}
	leave = g.hasFocus
	g.focus = surf
	g.hasFocus = true
	return leave, true
}

// Leave clears the drag's current focus surface without ending the drag.
func (g *Drag) Leave() {
	g.hasFocus = false
}

// Drop finalizes the drag on the currently focused surface, transitioning
// into the accept-finish handshake (§4.9). The caller still owns wiring
// wl_data_offer.finish/accept to the client; Drop only records the
// terminal phase so the device can clean up.
func (g *Drag) Drop() (surface.ID, bool) {
	if !g.hasFocus || g.phase != DragActive {
		return surface.NoID, false
	}
	g.phase = DragDropped
	return g.focus, true
}

// Cancel aborts the drag, notifying the source (§4.9 "on cancel (source
// receives cancelled)").
func (g *Drag) Cancel() {
	if g.phase != DragActive {
		return
	}
	g.phase = DragCancelled
	if g.Source != nil {
		g.Source.Cancel()
	}
}

// Phase reports the drag's current lifecycle phase.
func (g *Drag) Phase() DragPhase { return g.phase }

// EndDrag clears the seat's in-progress drag once the handshake
// completes (drop finished, or cancel processed).
func (d *Device) EndDrag() {
	d.drag = nil
}

package input

// Buttons is a bitmask of currently-pressed pointer buttons, used to
// delimit the implicit pointer grab span (§4.5: "between button-down and
// all-buttons-up").
type Buttons uint32

// Pointer is the seat's pointer position and focus tracking.
type Pointer struct {
	GlobalX, GlobalY float64
	Focus            SurfaceRef
	HasFocus         bool
	Pressed          Buttons

	// pendingMotion holds only the latest motion event until it is taken,
	// so repeated motion coalesces into one event (§4.5). lastMotionFrame
	// is not read or written.
	lastMotionFrame  uint64
	pendingMotion    *PointerMotionEvent
}

// PointerEnterEvent carries destination-surface-local coordinates.
type PointerEnterEvent struct {
	Serial  uint32
	Surface SurfaceRef
	X, Y    float64
}

// PointerLeaveEvent is emitted before a new enter on focus change.
type PointerLeaveEvent struct {
	Serial  uint32
	Surface SurfaceRef
}

// PointerMotionEvent is surface-local motion, coalesced to one per frame.
type PointerMotionEvent struct {
	Surface SurfaceRef
	X, Y    float64
}

// PointerButtonEvent is never coalesced and carries the authorizing
// serial for subsequent grab requests (§4.5).
type PointerButtonEvent struct {
	Serial  uint32
	Surface SurfaceRef
	Button  uint32
	Pressed bool
}

// SetPointerFocus transitions pointer focus, emitting leave(serial) then
// enter(new_serial, x, y) in destination-surface-local coordinates.
func (s *Seat) SetPointerFocus(newSurface SurfaceRef, hasSurface bool, localX, localY float64) (leave *PointerLeaveEvent, enter *PointerEnterEvent) {
	if s.Pointer.HasFocus {
		leave = &PointerLeaveEvent{Serial: s.MintSerial(), Surface: s.Pointer.Focus}
	}
	s.Pointer.Focus = newSurface
	s.Pointer.HasFocus = hasSurface
	s.Pointer.pendingMotion = nil
	if hasSurface {
		enter = &PointerEnterEvent{Serial: s.MintSerial(), Surface: newSurface, X: localX, Y: localY}
	}
	return leave, enter
}

// QueueMotion records a motion sample for the current frame, overwriting
// any not-yet-flushed sample for the same surface (coalescing, §4.5).
func (s *Seat) QueueMotion(surface SurfaceRef, x, y float64) {
	s.Pointer.pendingMotion = &PointerMotionEvent{Surface: surface, X: x, Y: y}
}

// FlushMotion returns and clears the coalesced motion sample for the
// frame boundary, or nil if nothing moved since the last flush.
func (s *Seat) FlushMotion() *PointerMotionEvent {
	m := s.Pointer.pendingMotion
	s.Pointer.pendingMotion = nil
	return m
}

// Button emits a button event (never coalesced) and updates the implicit
// grab span tracked in Pointer.Pressed.
func (s *Seat) Button(surface SurfaceRef, button uint32, pressed bool) PointerButtonEvent {
	ev := PointerButtonEvent{Serial: s.MintSerial(), Surface: surface, Button: button, Pressed: pressed}
	bit := Buttons(1) << button
	if pressed {
		s.Pointer.Pressed |= bit
	} else {
		s.Pointer.Pressed &^= bit
	}
	return ev
}

// InImplicitGrab reports whether any button is currently held, meaning
// all pointer events must route to the grab surface rather than
// following focus (§4.5 "Implicit pointer grabs exist between
// button-down and all-buttons-up").
func (s *Seat) InImplicitGrab() bool {
	return s.Pointer.Pressed != 0
}

package input

// Modifiers mirrors wl_keyboard.modifiers' bitmasks plus the active
// layout group.
type Modifiers struct {
	Depressed uint32
	Latched   uint32
	Locked    uint32
	Group     uint32
}

// IsZero reports whether no modifier is active in any state, used by
// focus-handover tests to assert the post-enter reset (§8 scenario 5).
func (m Modifiers) IsZero() bool {
	return m.Depressed == 0 && m.Latched == 0 && m.Locked == 0 && m.Group == 0
}

// Keyboard is the seat's keyboard focus slot and repeat configuration.
type Keyboard struct {
	Focus     SurfaceRef
	HasFocus  bool
	Modifiers Modifiers
	HeldKeys  []uint32

	RepeatRateHz  uint32
	RepeatDelayMs uint32

	// KeymapMemFD is the fd of a memfd holding the XKB keymap description,
	// delivered to clients on bind via wl_keyboard.keymap (§4.5).
	KeymapMemFD int
	KeymapSize  uint32
}

// KeyboardEnterEvent is emitted on focus gain, carrying the held keys
// (§4.5: "On focus gain: emit enter with the list of currently-held
// keycodes").
type KeyboardEnterEvent struct {
	Serial  uint32
	Surface SurfaceRef
	Keys    []uint32
}

// KeyboardLeaveEvent is emitted on focus loss.
type KeyboardLeaveEvent struct {
	Serial  uint32
	Surface SurfaceRef
}

// FocusChange is the leave/enter/modifiers-reset event triple produced by
// a keyboard focus handover (§8 scenario 5, §3 Seat invariant).
type FocusChange struct {
	Leave     *KeyboardLeaveEvent
	Modifiers *Modifiers // a zeroed-state modifiers event, sent between leave and enter
	Enter     *KeyboardEnterEvent
}

// SetFocus transitions keyboard focus to newSurface (or none, if
// newSurface's zero value is passed with hasSurface=false), returning the
// leave-then-enter event sequence with strictly increasing serials, per
// the Seat invariant in §3 and the focus-symmetry property in §8.
func (s *Seat) SetFocus(newSurface SurfaceRef, hasSurface bool, heldKeys []uint32) FocusChange {
	var change FocusChange
	if s.Keyboard.HasFocus {
		leaveSerial := s.MintSerial()
		change.Leave = &KeyboardLeaveEvent{Serial: leaveSerial, Surface: s.Keyboard.Focus}
		zero := Modifiers{}
		change.Modifiers = &zero
		s.Keyboard.Modifiers = zero
		s.Keyboard.HeldKeys = nil
	}
	s.Keyboard.Focus = newSurface
	s.Keyboard.HasFocus = hasSurface
	if hasSurface {
		enterSerial := s.MintSerial()
		s.Keyboard.HeldKeys = append([]uint32(nil), heldKeys...)
		change.Enter = &KeyboardEnterEvent{Serial: enterSerial, Surface: newSurface, Keys: s.Keyboard.HeldKeys}
	}
	return change
}

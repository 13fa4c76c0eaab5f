// Package input implements seat capability/focus machines, serial
// issuance, grab discipline, and coordinate transforms.
package input

import "sync/atomic"

// Capability is a bitmask of wl_seat capabilities.
type Capability uint32

const (
	CapKeyboard Capability = 1 << iota
	CapPointer
	CapTouch
)

// SurfaceRef is the minimal surface identity the input package needs; it
// avoids importing the surface package directly so that input stays a
// leaf package composable from either side (§9 "static composition").
type SurfaceRef = uint64

// SerialSource mints a monotonically increasing stream of serials shared
// by every seat event, as required by §4.5 ("A fresh monotonic serial is
// minted for every event that may later be echoed in a grab...").
type SerialSource struct {
	next uint32
}

// Next returns the next serial. Serial 0 is never issued, so 0 can be
// used as a sentinel for "no serial yet" by callers.
func (s *SerialSource) Next() uint32 {
	return atomic.AddUint32(&s.next, 1)
}

// Seat aggregates keyboard/pointer/touch state for one input seat (§3).
type Seat struct {
	Name         string
	Capabilities Capability
	Serials      SerialSource

	Keyboard Keyboard
	Pointer  Pointer
	Touch    Touch

	// usedSerials tracks which minted serials have already authorized a
	// grab/activation request, enforcing "each serial is used to
	// authorize at most one subsequent grab/activation request" (§8).
	usedSerials map[uint32]bool
	validSerials map[uint32]bool
}

// NewSeat creates a seat with the given capability set.
func NewSeat(name string, caps Capability) *Seat {
	return &Seat{
		Name:         name,
		Capabilities: caps,
		usedSerials:  make(map[uint32]bool),
		validSerials: make(map[uint32]bool),
	}
}

// MintSerial issues a fresh serial and records it as eligible to later
// authorize one grab/activation request.
func (s *Seat) MintSerial() uint32 {
	sr := s.Serials.Next()
	s.validSerials[sr] = true
	return sr
}

// AuthorizeGrab consumes a serial for a grab/move/resize/popup request.
// It fails (returns false, "stale serials fail silently" per §4.5) if the
// serial was never issued or was already consumed.
func (s *Seat) AuthorizeGrab(serial uint32) bool {
	if !s.validSerials[serial] || s.usedSerials[serial] {
		return false
	}
	s.usedSerials[serial] = true
	return true
}

// HasCapability reports whether cap is currently advertised.
func (s *Seat) HasCapability(cap Capability) bool {
	return s.Capabilities&cap != 0
}

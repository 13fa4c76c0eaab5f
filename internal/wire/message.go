// Package wire implements the Wayland wire format: 32-bit-word framed
// messages with fd passing via SCM_RIGHTS.
package wire

import "fmt"

// ArgKind identifies the wire representation of a single request/event
// argument, matching the letters used in protocol XML signatures.
type ArgKind byte

const (
	ArgInt    ArgKind = 'i'
	ArgUint   ArgKind = 'u'
	ArgFixed  ArgKind = 'f'
	ArgString ArgKind = 's'
	ArgObject ArgKind = 'o'
	ArgNewID  ArgKind = 'n'
	ArgArray  ArgKind = 'a'
	ArgFD     ArgKind = 'h'
)

// Fixed is a 24.8 signed fixed-point number, per the Wayland wire format.
type Fixed int32

// ToFloat64 converts a wire fixed-point value to a float64.
func (f Fixed) ToFloat64() float64 {
	return float64(f) / 256.0
}

// FixedFromFloat64 converts a float64 to a wire fixed-point value.
func FixedFromFloat64(v float64) Fixed {
	return Fixed(v * 256.0)
}

// Arg is a single decoded or to-be-encoded argument.
type Arg struct {
	Kind   ArgKind
	Int    int32
	Uint   uint32
	Fixed  Fixed
	String string
	Array  []byte
	FD     int
}

// Header is the fixed 8-byte message header: sender object id, 16-bit
// length (header + payload, in bytes), and 16-bit opcode.
type Header struct {
	Sender uint32
	Length uint16
	Opcode uint16
}

// Message is a fully decoded request or event: a header plus its argument
// list, decoded according to a per-opcode Signature.
type Message struct {
	Header Header
	Args   []Arg
}

// Signature describes the argument kinds of one opcode, plus the minimum
// interface version the opcode requires (§4.2(ii)).
type Signature struct {
	Name        string
	Kinds       []ArgKind
	NewIDIface  string // non-empty when a 'n' arg is untyped and carries an explicit interface name
	MinVersion  uint32
}

func (s Signature) String() string {
	return fmt.Sprintf("%s(%d args)", s.Name, len(s.Kinds))
}

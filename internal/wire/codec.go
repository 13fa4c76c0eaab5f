package wire

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
	"unsafe"

	"honnef.co/go/safeish"
)

// HeaderSize is the byte size of a message header: sender(4) + length(2) + opcode(2).
const HeaderSize = 8

// DecodeError reports a malformed payload against the sender object, per
// §4.1's error policy. The caller turns this into a wl_display.error event
// and closes the connection.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string { return "wire: decode: " + e.Reason }

// Encode serializes a message's header and arguments into a 32-bit-word
// aligned byte buffer, plus the list of file descriptors to be sent as a
// single SCM_RIGHTS ancillary message alongside it. The caller is
// responsible for pairing the returned bytes/fds with one sendmsg call so
// that fds land at the right byte offsets (Wayland does not otherwise tag
// which word an fd belongs to; ordering is positional).
func Encode(sender uint32, opcode uint16, sig Signature, args []Arg) (payload []byte, fds []int, err error) {
	if len(args) != len(sig.Kinds) {
		return nil, nil, fmt.Errorf("wire: encode %s: want %d args, got %d", sig.Name, len(sig.Kinds), len(args))
	}

	buf := make([]byte, HeaderSize, HeaderSize+32)
	for i, a := range args {
		switch sig.Kinds[i] {
		case ArgInt:
			buf = appendUint32(buf, uint32(a.Int))
		case ArgUint, ArgObject, ArgNewID:
			buf = appendUint32(buf, a.Uint)
		case ArgFixed:
			buf = appendUint32(buf, uint32(a.Fixed))
		case ArgString:
			buf = appendString(buf, a.String)
		case ArgArray:
			buf = appendArray(buf, a.Array)
		case ArgFD:
			fds = append(fds, a.FD)
		default:
			return nil, nil, fmt.Errorf("wire: encode %s: unknown arg kind %q", sig.Name, sig.Kinds[i])
		}
	}

	if len(buf) > 0xffff {
		return nil, nil, fmt.Errorf("wire: encode %s: message too large (%d bytes)", sig.Name, len(buf))
	}
	binary.LittleEndian.PutUint32(buf[0:4], sender)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(len(buf)))
	binary.LittleEndian.PutUint16(buf[6:8], opcode)
	return buf, fds, nil
}

// Decode parses one message out of buf (which must contain at least one
// complete frame) according to sig. It returns the number of bytes
// consumed so the caller (a restartable stream decoder) can retain any
// trailing partial frame. fds holds the descriptors received so far; one
// is taken, in order, for each ArgFD entry of sig, and having fewer than
// sig needs is reported as a *DecodeError.
func Decode(buf []byte, fds []int, sig Signature) (msg Message, consumed int, err error) {
	if len(buf) < HeaderSize {
		return Message{}, 0, nil // short read, wait for more bytes
	}
	length := binary.LittleEndian.Uint16(buf[4:6])
	if length < HeaderSize {
		return Message{}, 0, &DecodeError{Reason: fmt.Sprintf("length %d smaller than header", length)}
	}
	if int(length) > len(buf) {
		return Message{}, 0, nil // short read
	}

	hdr := Header{
		Sender: binary.LittleEndian.Uint32(buf[0:4]),
		Opcode: binary.LittleEndian.Uint16(buf[6:8]),
		Length: length,
	}

	body := buf[HeaderSize:length]
	args := make([]Arg, 0, len(sig.Kinds))
	fdIdx := 0
	for _, kind := range sig.Kinds {
		switch kind {
		case ArgInt:
			v, rest, derr := takeUint32(body, sig.Name)
			if derr != nil {
				return Message{}, 0, derr
			}
			args = append(args, Arg{Kind: kind, Int: int32(v)})
			body = rest
		case ArgUint, ArgObject, ArgNewID:
			v, rest, derr := takeUint32(body, sig.Name)
			if derr != nil {
				return Message{}, 0, derr
			}
			args = append(args, Arg{Kind: kind, Uint: v})
			body = rest
		case ArgFixed:
			v, rest, derr := takeUint32(body, sig.Name)
			if derr != nil {
				return Message{}, 0, derr
			}
			args = append(args, Arg{Kind: kind, Fixed: Fixed(v)})
			body = rest
		case ArgString:
			s, rest, derr := takeString(body, sig.Name)
			if derr != nil {
				return Message{}, 0, derr
			}
			args = append(args, Arg{Kind: kind, String: s})
			body = rest
		case ArgArray:
			a, rest, derr := takeArray(body, sig.Name)
			if derr != nil {
				return Message{}, 0, derr
			}
			args = append(args, Arg{Kind: kind, Array: a})
			body = rest
		case ArgFD:
			if fdIdx >= len(fds) {
				return Message{}, 0, &DecodeError{Reason: fmt.Sprintf("%s: missing fd argument", sig.Name)}
			}
			args = append(args, Arg{Kind: kind, FD: fds[fdIdx]})
			fdIdx++
		default:
			return Message{}, 0, &DecodeError{Reason: fmt.Sprintf("%s: unknown arg kind %q", sig.Name, kind)}
		}
	}

	return Message{Header: hdr, Args: args}, int(length), nil
}

// PeekHeader parses just the 8-byte header, without knowing the
// message's argument signature yet. The dispatcher uses this to resolve
// which Signature applies (by sender's bound interface and opcode)
// before calling Decode for the full message.
func PeekHeader(buf []byte) (hdr Header, ok bool) {
	if len(buf) < HeaderSize {
		return Header{}, false
	}
	length := binary.LittleEndian.Uint16(buf[4:6])
	if int(length) > len(buf) {
		return Header{}, false
	}
	return Header{
		Sender: binary.LittleEndian.Uint32(buf[0:4]),
		Opcode: binary.LittleEndian.Uint16(buf[6:8]),
		Length: length,
	}, true
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) []byte {
	n := uint32(len(s) + 1) // NUL terminator
	buf = appendUint32(buf, n)
	buf = append(buf, s...)
	buf = append(buf, 0)
	return padTo4(buf)
}

func appendArray(buf []byte, a []byte) []byte {
	buf = appendUint32(buf, uint32(len(a)))
	buf = append(buf, a...)
	return padTo4(buf)
}

func padTo4(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

func takeUint32(body []byte, ctx string) (uint32, []byte, error) {
	if len(body) < 4 {
		return 0, nil, &DecodeError{Reason: fmt.Sprintf("%s: truncated uint32", ctx)}
	}
	return binary.LittleEndian.Uint32(body[:4]), body[4:], nil
}

// takeString reads a length-prefixed, NUL-terminated, 4-byte-padded string
// and validates it as UTF-8, per §4.1's "malformed payloads produce a
// protocol error" policy.
func takeString(body []byte, ctx string) (string, []byte, error) {
	n, rest, err := takeUint32(body, ctx)
	if err != nil {
		return "", nil, err
	}
	if n == 0 {
		return "", rest, nil
	}
	total := padded4(int(n))
	if len(rest) < total {
		return "", nil, &DecodeError{Reason: fmt.Sprintf("%s: truncated string", ctx)}
	}
	raw := rest[:n-1] // drop the NUL terminator
	nul := safeish.FindNull(safeish.Cast[*byte](unsafe.Pointer(&rest[0])))
	if nul != int(n)-1 {
		return "", nil, &DecodeError{Reason: fmt.Sprintf("%s: embedded or missing NUL in string", ctx)}
	}
	if !utf8.Valid(raw) {
		return "", nil, &DecodeError{Reason: fmt.Sprintf("%s: invalid UTF-8 in string", ctx)}
	}
	return string(raw), rest[total:], nil
}

func takeArray(body []byte, ctx string) ([]byte, []byte, error) {
	n, rest, err := takeUint32(body, ctx)
	if err != nil {
		return nil, nil, err
	}
	total := padded4(int(n))
	if len(rest) < total {
		return nil, nil, &DecodeError{Reason: fmt.Sprintf("%s: truncated array", ctx)}
	}
	out := make([]byte, n)
	copy(out, rest[:n])
	return out, rest[total:], nil
}

func padded4(n int) int {
	return (n + 3) &^ 3
}

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sig := Signature{
		Name:  "wl_surface.attach",
		Kinds: []ArgKind{ArgObject, ArgInt, ArgInt},
	}
	args := []Arg{
		{Kind: ArgObject, Uint: 42},
		{Kind: ArgInt, Int: 0},
		{Kind: ArgInt, Int: -1},
	}

	payload, fds, err := Encode(7, 1, sig, args)
	require.NoError(t, err)
	require.Empty(t, fds)

	msg, consumed, err := Decode(payload, nil, sig)
	require.NoError(t, err)
	require.Equal(t, len(payload), consumed)
	require.Equal(t, uint32(7), msg.Header.Sender)
	require.Equal(t, uint16(1), msg.Header.Opcode)
	require.Equal(t, uint32(42), msg.Args[0].Uint)
	require.Equal(t, int32(0), msg.Args[1].Int)
	require.Equal(t, int32(-1), msg.Args[2].Int)
}

func TestEncodeDecodeString(t *testing.T) {
	sig := Signature{Name: "wl_registry.bind", Kinds: []ArgKind{ArgUint, ArgString, ArgUint, ArgNewID}}
	args := []Arg{
		{Kind: ArgUint, Uint: 1},
		{Kind: ArgString, String: "wl_compositor"},
		{Kind: ArgUint, Uint: 5},
		{Kind: ArgNewID, Uint: 0xff000001},
	}
	payload, _, err := Encode(1, 0, sig, args)
	require.NoError(t, err)

	msg, consumed, err := Decode(payload, nil, sig)
	require.NoError(t, err)
	require.Equal(t, len(payload), consumed)
	require.Equal(t, "wl_compositor", msg.Args[1].String)
	require.Equal(t, uint32(0xff000001), msg.Args[3].Uint)
}

func TestDecodeShortRead(t *testing.T) {
	sig := Signature{Name: "wl_surface.commit", Kinds: nil}
	msg, consumed, err := Decode([]byte{1, 0, 0, 0}, nil, sig)
	require.NoError(t, err)
	require.Zero(t, consumed)
	require.Zero(t, msg.Header.Sender)
}

func TestDecodeTruncatedStringIsProtocolError(t *testing.T) {
	sig := Signature{Name: "wl_registry.bind", Kinds: []ArgKind{ArgString}}
	// header + length prefix claiming 20 bytes but no payload
	buf := make([]byte, HeaderSize+4)
	buf[4] = byte(HeaderSize + 4)
	buf[HeaderSize] = 20
	_, _, err := Decode(buf, nil, sig)
	require.Error(t, err)
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
}

func TestFixedConversion(t *testing.T) {
	f := FixedFromFloat64(12.5)
	require.InDelta(t, 12.5, f.ToFloat64(), 1e-6)
}

package server

import (
	"net"
	"testing"
	"time"

	"github.com/novawl/compositor/internal/wire"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	sigs map[uint16]wire.Signature
}

func (r *fakeResolver) Resolve(iface string, opcode uint16) (wire.Signature, bool) {
	if iface != "wl_display" {
		return wire.Signature{}, false
	}
	s, ok := r.sigs[opcode]
	return s, ok
}

func TestDispatcherDecodesAndHandlesOneMessage(t *testing.T) {
	path := socketPath(t)
	accepted := make(chan *Client, 1)
	ln, err := Listen(path, func(c *Client) { accepted <- c })
	require.NoError(t, err)
	defer ln.Close()
	go ln.Serve()

	rawClient, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer rawClient.Close()

	var server *Client
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("no accept")
	}
	server.Table.Insert(1, "wl_display", 1, nil)

	resolver := &fakeResolver{sigs: map[uint16]wire.Signature{
		0: {Name: "wl_display.sync", Kinds: []wire.ArgKind{wire.ArgNewID}},
	}}

	var handled []wire.Message
	disp := NewDispatcher(server, resolver, func(id uint32) (string, bool) {
		r, ok := server.Table.Lookup(id)
		if !ok {
			return "", false
		}
		return r.Interface, true
	}, func(c *Client, sender uint32, msg wire.Message) error {
		handled = append(handled, msg)
		return nil
	})

	sig := wire.Signature{Name: "wl_display.sync", Kinds: []wire.ArgKind{wire.ArgNewID}}
	payload, _, err := wire.Encode(1, 0, sig, []wire.Arg{{Kind: wire.ArgNewID, Uint: 5}})
	require.NoError(t, err)
	_, err = rawClient.Write(payload)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, disp.Pump())
	require.Len(t, handled, 1)
	require.Equal(t, uint32(5), handled[0].Args[0].Uint)
}

func TestDispatcherTerminatesOnUnknownObject(t *testing.T) {
	path := socketPath(t)
	accepted := make(chan *Client, 1)
	ln, err := Listen(path, func(c *Client) { accepted <- c })
	require.NoError(t, err)
	defer ln.Close()
	go ln.Serve()

	rawClient, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer rawClient.Close()

	var server *Client
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("no accept")
	}

	resolver := &fakeResolver{sigs: map[uint16]wire.Signature{}}
	disp := NewDispatcher(server, resolver, func(uint32) (string, bool) { return "", false }, func(*Client, uint32, wire.Message) error {
		return nil
	})

	sig := wire.Signature{Name: "x", Kinds: nil}
	payload, _, err := wire.Encode(99, 0, sig, nil)
	require.NoError(t, err)
	_, err = rawClient.Write(payload)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	err = disp.Pump()
	require.Error(t, err)
}

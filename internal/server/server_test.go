package server

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/novawl/compositor/internal/wire"
	"github.com/stretchr/testify/require"
)

func socketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "wayland-test")
}

func TestListenAndAcceptAuthenticatesPeer(t *testing.T) {
	path := socketPath(t)
	accepted := make(chan *Client, 1)
	ln, err := Listen(path, func(c *Client) { accepted <- c })
	require.NoError(t, err)
	defer ln.Close()

	go ln.Serve()

	client, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer client.Close()

	select {
	case c := <-accepted:
		require.NotNil(t, c.Table)
		require.NotZero(t, c.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
}

func TestSendRecvRoundTrip(t *testing.T) {
	path := socketPath(t)
	accepted := make(chan *Client, 1)
	ln, err := Listen(path, func(c *Client) { accepted <- c })
	require.NoError(t, err)
	defer ln.Close()
	go ln.Serve()

	rawClient, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer rawClient.Close()

	server := <-accepted

	sig := wire.Signature{Name: "wl_display.sync", Kinds: []wire.ArgKind{wire.ArgNewID}}
	payload, _, err := wire.Encode(1, 0, sig, []wire.Arg{{Kind: wire.ArgNewID, Uint: 5}})
	require.NoError(t, err)

	_, err = rawClient.Write(payload)
	require.NoError(t, err)

	got, fds, err := server.Conn.RecvRaw()
	require.NoError(t, err)
	require.Empty(t, fds)

	hdr, ok := wire.PeekHeader(got)
	require.True(t, ok)
	require.Equal(t, uint32(1), hdr.Sender)
}

func TestListenRemovesStaleSocketFile(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	ln, err := Listen(path, func(*Client) {})
	require.NoError(t, err)
	defer ln.Close()
}

func TestClientSerialsStrictlyIncrease(t *testing.T) {
	c := &Client{}
	a := c.NextSerial()
	b := c.NextSerial()
	require.Less(t, a, b)
}

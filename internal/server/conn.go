// Package server implements the Unix-domain-socket transport:
// credential-authenticated accept, per-connection framed send/receive
// with SCM_RIGHTS fd passing, and the protocol-error-terminates-
// connection policy (§6 "Wire protocol").
package server

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/novawl/compositor/internal/wire"
)

// ErrConnectionClosed is returned by Recv once the peer has closed the
// socket.
var ErrConnectionClosed = errors.New("server: connection closed")

// maxControlMessageBytes bounds the SCM_RIGHTS ancillary buffer; 28 fds
// at 4 bytes each plus a cmsghdr comfortably fits in 256 bytes.
const maxControlMessageBytes = 256

// maxMessageBytes is the largest single wire message this transport
// accepts, guarding against a misbehaving client claiming an absurd
// length in its header.
const maxMessageBytes = 1 << 20

// Conn wraps one client's Unix-domain-socket connection, matching the
// recvmsg/sendmsg-with-control-message shape used client-side elsewhere
// in the ecosystem, mirrored here for the server's accept path.
type Conn struct {
	uc      *net.UnixConn
	rawFD   int
	readBuf []byte
}

// NewConn wraps an accepted *net.UnixConn.
func NewConn(uc *net.UnixConn) (*Conn, error) {
	f, err := uc.File()
	if err != nil {
		return nil, fmt.Errorf("server: obtaining socket fd: %w", err)
	}
	// f.Fd() dup's the fd; close our net.Conn's use of the duplicate is
	// unnecessary since we keep f open for the connection's lifetime
	// alongside uc, and close both together in Close.
	return &Conn{uc: uc, rawFD: int(f.Fd()), readBuf: make([]byte, maxMessageBytes)}, nil
}

// FD returns the connection's raw socket file descriptor, for
// registering with an epoll-based event loop.
func (c *Conn) FD() int { return c.rawFD }

// PeerCredentials returns the connecting process's uid/gid/pid via
// SO_PEERCRED, used to authenticate the client on accept (§6).
func (c *Conn) PeerCredentials() (*unix.Ucred, error) {
	return unix.GetsockoptUcred(c.rawFD, unix.SOL_SOCKET, unix.SO_PEERCRED)
}

// SendRaw writes a pre-encoded message, passing fds via SCM_RIGHTS when
// present.
func (c *Conn) SendRaw(payload []byte, fds []int) error {
	if len(fds) == 0 {
		_, err := c.uc.Write(payload)
		return err
	}
	rights := unix.UnixRights(fds...)
	return unix.Sendmsg(c.rawFD, payload, rights, nil, 0)
}

// RecvRaw reads one recvmsg's worth of bytes and any attached fds. It
// does not frame messages itself — Decode is restartable across short
// reads, so the caller accumulates RecvRaw's output into a buffer and
// calls wire.Decode until it needs more bytes.
func (c *Conn) RecvRaw() (payload []byte, fds []int, err error) {
	oob := make([]byte, maxControlMessageBytes)
	n, oobn, _, _, err := unix.Recvmsg(c.rawFD, c.readBuf, oob, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("server: recvmsg: %w", err)
	}
	if n == 0 {
		return nil, nil, ErrConnectionClosed
	}
	gotFDs, err := parseRights(oob[:oobn])
	if err != nil {
		return nil, nil, err
	}
	out := make([]byte, n)
	copy(out, c.readBuf[:n])
	return out, gotFDs, nil
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	return c.uc.Close()
}

func parseRights(oob []byte) ([]int, error) {
	if len(oob) == 0 {
		return nil, nil
	}
	scms, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, fmt.Errorf("server: parse control message: %w", err)
	}
	var fds []int
	for _, scm := range scms {
		if scm.Header.Level != unix.SOL_SOCKET || scm.Header.Type != unix.SCM_RIGHTS {
			continue
		}
		got, err := unix.ParseUnixRights(&scm)
		if err != nil {
			return nil, fmt.Errorf("server: parse unix rights: %w", err)
		}
		fds = append(fds, got...)
	}
	return fds, nil
}

// EncodeAndSend is a convenience wrapper combining wire.Encode and
// SendRaw for the common case of emitting a single event.
func (c *Conn) EncodeAndSend(sender uint32, opcode uint16, sig wire.Signature, args []wire.Arg) error {
	payload, fds, err := wire.Encode(sender, opcode, sig, args)
	if err != nil {
		return err
	}
	return c.SendRaw(payload, fds)
}

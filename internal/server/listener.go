package server

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/novawl/compositor/internal/errs"
	"github.com/novawl/compositor/internal/object"
	"github.com/novawl/compositor/internal/wire"
)

// displayErrorSignature is wl_display.error's wire signature
// (object_id, code, message), duplicated here rather than imported from
// internal/protocol to keep this package free of a dependency on the
// compositor's request/event table.
var displayErrorSignature = wire.Signature{Name: "wl_display.error", Kinds: []wire.ArgKind{wire.ArgObject, wire.ArgUint, wire.ArgString}}

// SocketPath resolves $XDG_RUNTIME_DIR/wayland-<n>, per §6.
func SocketPath(displayName string) (string, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return "", fmt.Errorf("server: XDG_RUNTIME_DIR is not set")
	}
	return filepath.Join(dir, displayName), nil
}

// Client is one connected peer: its transport, object table, and
// per-client serial counter (§4.2, §5).
type Client struct {
	ID      uint32
	Session string
	Conn    *Conn
	Table   *object.Table

	serials atomic.Uint32
	closed  bool
}

// NextSerial mints a strictly increasing serial for this client, used by
// every event that later needs to be referenced by a request (§4.5).
func (c *Client) NextSerial() uint32 {
	return c.serials.Add(1)
}

// Listener accepts client connections on the Wayland Unix socket and
// authenticates them via SO_PEERCRED before handing them to Server.
type Listener struct {
	ln       *net.UnixListener
	lnFile   *os.File
	path     string
	nextID   atomic.Uint32
	onAccept func(*Client)
}

// Listen binds and listens on path, removing any stale socket file left
// behind by a prior crashed instance first. onAccept may be nil; callers
// driving their own epoll loop use AcceptOnce/FD instead of Serve.
func Listen(path string, onAccept func(*Client)) (*Listener, error) {
	_ = os.Remove(path)
	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, err
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, fmt.Errorf("server: listen on %s: %w", path, err)
	}
	lnFile, err := ln.File()
	if err != nil {
		return nil, fmt.Errorf("server: obtaining listener fd: %w", err)
	}
	return &Listener{ln: ln, lnFile: lnFile, path: path, onAccept: onAccept}, nil
}

// FD returns the listening socket's raw file descriptor, for registering
// with an epoll-based event loop alongside per-client connection fds.
func (l *Listener) FD() int { return int(l.lnFile.Fd()) }

// AcceptOnce accepts exactly one pending connection, authenticating it
// via SO_PEERCRED. Callers driving their own epoll loop call this when
// FD() reports readable, instead of running the blocking Serve loop. A
// returned (nil, nil) means the pending connection failed authentication
// and was rejected; that is not fatal and the caller should keep serving.
// A non-nil error means the listener itself is gone.
func (l *Listener) AcceptOnce() (*Client, error) {
	uc, err := l.ln.AcceptUnix()
	if err != nil {
		return nil, err
	}
	client, err := l.accept(uc)
	if err != nil {
		log.Warn().Err(err).Msg("server: rejecting client")
		uc.Close()
		return nil, nil
	}
	return client, nil
}

// Serve accepts connections until the listener is closed. Each accepted
// connection is authenticated and handed to onAccept on its own; Serve
// itself never dispatches wire messages, matching §5's single
// event-loop-thread model where the caller folds each new connection's
// fd into its own epoll set.
func (l *Listener) Serve() error {
	for {
		client, err := l.AcceptOnce()
		if err != nil {
			return err
		}
		if client != nil && l.onAccept != nil {
			l.onAccept(client)
		}
	}
}

func (l *Listener) accept(uc *net.UnixConn) (*Client, error) {
	conn, err := NewConn(uc)
	if err != nil {
		return nil, err
	}
	cred, err := conn.PeerCredentials()
	if err != nil {
		return nil, fmt.Errorf("server: SO_PEERCRED: %w", err)
	}
	id := l.nextID.Add(1)
	session := uuid.NewString()
	log.Info().Uint32("client", id).Str("session", session).Int32("uid", int32(cred.Uid)).Int32("pid", int32(cred.Pid)).Msg("client connected")
	return &Client{ID: id, Session: session, Conn: conn, Table: object.New(id)}, nil
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// HandleProtocolError implements §7's policy for Protocol-kind errors:
// report the wl_display.error event then terminate the connection. Other
// error kinds (Backend, Internal) are the caller's responsibility per
// their own degrade/contain policies.
func HandleProtocolError(c *Client, perr *errs.Protocol) {
	log.Warn().Uint32("client", c.ID).Str("session", c.Session).Str("interface", perr.Interface).
		Uint32("object", perr.Object).Uint32("code", perr.Code).Msg(perr.Message)
	if !c.closed {
		args := []wire.Arg{
			{Kind: wire.ArgObject, Uint: perr.Object},
			{Kind: wire.ArgUint, Uint: perr.Code},
			{Kind: wire.ArgString, String: perr.Message},
		}
		if err := c.Conn.EncodeAndSend(1, 0, displayErrorSignature, args); err != nil {
			log.Warn().Err(err).Uint32("client", c.ID).Msg("server: sending wl_display.error failed")
		}
	}
	c.closed = true
	c.Conn.Close()
}

package server

import (
	"github.com/novawl/compositor/internal/errs"
	"github.com/novawl/compositor/internal/wire"
)

// SignatureResolver resolves the argument signature for a request,
// keyed by the sender's bound interface name and opcode (§4.2). It is
// implemented by the protocol dispatch table the compositor package
// builds from every interface it supports.
type SignatureResolver interface {
	Resolve(iface string, opcode uint16) (wire.Signature, bool)
}

// Handler processes one fully decoded request against its resource.
// Returning a *errs.Protocol terminates the connection after reporting
// the error (§7); any other error is treated as internal and logged
// without necessarily severing the client.
type Handler func(c *Client, sender uint32, msg wire.Message) error

// Dispatcher accumulates bytes from a Conn and decodes complete
// messages, restarting cleanly across short reads (the Decode contract
// it's built on).
type Dispatcher struct {
	client    *Client
	resolver  SignatureResolver
	ifaceOf   func(objID uint32) (string, bool)
	handle    Handler
	buf       []byte
	pendingFD []int
}

// NewDispatcher builds a per-client dispatcher. ifaceOf resolves a live
// object id to its bound interface name (typically object.Table.Lookup
// plus a type assertion on Resource.Interface).
func NewDispatcher(c *Client, resolver SignatureResolver, ifaceOf func(uint32) (string, bool), handle Handler) *Dispatcher {
	return &Dispatcher{client: c, resolver: resolver, ifaceOf: ifaceOf, handle: handle}
}

// Pump reads exactly one recvmsg worth of data from the connection and
// decodes every complete message it now contains, dispatching each in
// turn. It returns ErrConnectionClosed when the peer has disconnected.
func (d *Dispatcher) Pump() error {
	payload, fds, err := d.client.Conn.RecvRaw()
	if err != nil {
		return err
	}
	d.buf = append(d.buf, payload...)
	d.pendingFD = append(d.pendingFD, fds...)

	for {
		hdr, ok := wire.PeekHeader(d.buf)
		if !ok {
			break
		}
		iface, ok := d.ifaceOf(hdr.Sender)
		if !ok {
			perr := &errs.Protocol{Object: hdr.Sender, Code: 0, Message: "request on unknown or deleted object"}
			HandleProtocolError(d.client, perr)
			return perr
		}
		sig, ok := d.resolver.Resolve(iface, hdr.Opcode)
		if !ok {
			perr := &errs.Protocol{Interface: iface, Object: hdr.Sender, Code: 1, Message: "invalid method"}
			HandleProtocolError(d.client, perr)
			return perr
		}

		msg, consumed, derr := wire.Decode(d.buf, d.pendingFD, sig)
		if derr != nil {
			perr := &errs.Protocol{Interface: iface, Object: hdr.Sender, Code: 0, Message: derr.Error()}
			HandleProtocolError(d.client, perr)
			return perr
		}
		if consumed == 0 {
			break // short read, wait for more bytes
		}

		consumedFDs := countFDArgs(sig)
		d.buf = d.buf[consumed:]
		d.pendingFD = d.pendingFD[consumedFDs:]

		if herr := d.handle(d.client, hdr.Sender, msg); herr != nil {
			if perr, ok := herr.(*errs.Protocol); ok {
				HandleProtocolError(d.client, perr)
				return perr
			}
			return herr
		}
	}
	return nil
}

func countFDArgs(sig wire.Signature) int {
	n := 0
	for _, k := range sig.Kinds {
		if k == wire.ArgFD {
			n++
		}
	}
	return n
}

package compositor

import (
	"github.com/rs/zerolog/log"

	"github.com/novawl/compositor/internal/errs"
	"github.com/novawl/compositor/internal/protocol"
	"github.com/novawl/compositor/internal/server"
	"github.com/novawl/compositor/internal/wire"
)

// displayObjectID is the implicit wl_display object every client starts
// with bound at id 1, never sent over the wire as a bind (§4.2).
const displayObjectID uint32 = 1

// resolverFunc adapts protocol.Resolve to server.SignatureResolver.
type resolverFunc struct{}

func (resolverFunc) Resolve(iface string, opcode uint16) (wire.Signature, bool) {
	return protocol.Resolve(iface, opcode)
}

// ifaceOf resolves a client object id to its bound interface name, the
// glue server.Dispatcher needs to pick a Signature before it can decode
// a request's body.
func ifaceOf(c *server.Client) func(uint32) (string, bool) {
	return func(id uint32) (string, bool) {
		if id == displayObjectID {
			return "wl_display", true
		}
		r, ok := c.Table.Lookup(id)
		if !ok {
			return "", false
		}
		return r.Interface, true
	}
}

// handleRequest is the single entry point every decoded request passes
// through, satisfying server.Handler. It routes by the sender's bound
// interface, drains any delete_id backlog once it returns, and turns an
// unhandled (interface, opcode) pair into a protocol error rather than a
// silent no-op, since a client waiting on a reply would otherwise hang.
func (s *State) handleRequest(c *server.Client, sender uint32, msg wire.Message) error {
	defer s.emitDeletes(c)

	if sender == displayObjectID {
		return s.handleDisplay(c, msg)
	}

	r, ok := c.Table.Lookup(sender)
	if !ok {
		return nil // tolerated: request raced a delete_id (§3 object lifecycle)
	}

	switch r.Interface {
	case "wl_registry":
		return s.handleRegistry(c, r, msg)
	case "wl_compositor":
		return s.handleCompositor(c, r, msg)
	case "wl_subcompositor":
		return s.handleSubcompositor(c, r, msg)
	case "wl_subsurface":
		return s.handleSubsurface(c, r, msg)
	case "wl_surface":
		return s.handleSurface(c, r, msg)
	case "wl_region":
		return s.handleRegion(c, r, msg)
	case "wl_shm":
		return s.handleShm(c, r, msg)
	case "wl_shm_pool":
		return s.handleShmPool(c, r, msg)
	case "wl_buffer":
		return s.handleBuffer(c, r, msg)
	case "wl_output":
		return s.handleOutput(c, r, msg)
	case "wl_callback":
		return nil // no requests defined on wl_callback
	case "wl_seat":
		return s.handleSeat(c, r, msg)
	case "wl_pointer", "wl_keyboard", "wl_touch":
		return s.handleInputDevice(c, r, msg)
	case "wl_data_device_manager":
		return s.handleDataDeviceManager(c, r, msg)
	case "wl_data_device":
		return s.handleDataDevice(c, r, msg)
	case "wl_data_source":
		return s.handleDataSource(c, r, msg)
	case "wl_data_offer":
		return s.handleDataOffer(c, r, msg)
	case "xdg_wm_base":
		return s.handleXdgWmBase(c, r, msg)
	case "xdg_positioner":
		return s.handleXdgPositioner(c, r, msg)
	case "xdg_surface":
		return s.handleXdgSurface(c, r, msg)
	case "xdg_toplevel":
		return s.handleXdgToplevel(c, r, msg)
	case "xdg_popup":
		return s.handleXdgPopup(c, r, msg)
	case "zwlr_layer_shell_v1":
		return s.handleLayerShell(c, r, msg)
	case "zwlr_layer_surface_v1":
		return s.handleLayerSurface(c, r, msg)
	case "zwlr_foreign_toplevel_manager_v1":
		return nil // stop: manager has nothing to tear down server-side
	default:
		log.Warn().Str("interface", r.Interface).Uint16("opcode", msg.Header.Opcode).Msg("compositor: no handler wired for interface")
		return &errs.Protocol{Interface: r.Interface, Object: sender, Code: 1, Message: "invalid method"}
	}
}

// handleDisplay implements wl_display.sync and wl_display.get_registry,
// the only two requests available before a client has bound anything
// else (§4.2).
func (s *State) handleDisplay(c *server.Client, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // sync
		newID := msg.Args[0].Uint
		if _, err := c.Table.Insert(newID, "wl_callback", 1, nil); err != nil {
			return &errs.Protocol{Interface: "wl_display", Object: displayObjectID, Code: 0, Message: err.Error()}
		}
		if err := c.Conn.EncodeAndSend(newID, 0, protocol.EventCallbackDone, []wire.Arg{{Kind: wire.ArgUint, Uint: 0}}); err != nil {
			return err
		}
		c.Table.Destroy(newID)
		return nil
	case 1: // get_registry
		newID := msg.Args[0].Uint
		if _, err := c.Table.Insert(newID, "wl_registry", 1, nil); err != nil {
			return &errs.Protocol{Interface: "wl_display", Object: displayObjectID, Code: 0, Message: err.Error()}
		}
		for _, g := range s.Registry.Snapshot() {
			if err := c.Conn.EncodeAndSend(newID, 0, protocol.EventRegistryGlobal, []wire.Arg{
				{Kind: wire.ArgUint, Uint: g.Name},
				{Kind: wire.ArgString, String: g.Interface},
				{Kind: wire.ArgUint, Uint: g.MaxVersion},
			}); err != nil {
				return err
			}
		}
		return nil
	default:
		return &errs.Protocol{Interface: "wl_display", Object: displayObjectID, Code: 1, Message: "invalid method"}
	}
}

// emitDeletes drains the client's table of ids awaiting delete_id and
// reports each one, per §4.2(iii)'s deferred-destroy contract. Centralized
// here instead of scattered across every destroy handler.
func (s *State) emitDeletes(c *server.Client) {
	for _, id := range c.Table.DrainPending() {
		if err := c.Conn.EncodeAndSend(displayObjectID, 1, protocol.EventDisplayDeleteID, []wire.Arg{{Kind: wire.ArgUint, Uint: id}}); err != nil {
			log.Warn().Err(err).Uint32("client", c.ID).Msg("compositor: sending delete_id failed")
		}
	}
}

// protocolErrorf is a small helper for building a *errs.Protocol for a
// request's own object, used throughout the per-interface handler files.
func protocolErrorf(iface string, obj uint32, code uint32, msg string) *errs.Protocol {
	return &errs.Protocol{Interface: iface, Object: obj, Code: code, Message: msg}
}

package compositor

import (
	"github.com/novawl/compositor/internal/buffer"
	"github.com/novawl/compositor/internal/input"
	"github.com/novawl/compositor/internal/object"
	"github.com/novawl/compositor/internal/proto"
	"github.com/novawl/compositor/internal/protocol"
	"github.com/novawl/compositor/internal/server"
	"github.com/novawl/compositor/internal/surface"
	"github.com/novawl/compositor/internal/wire"
)

// handleRegistry implements wl_registry.bind: resolve the requested
// global, clamp its version, and actually instantiate a resource in the
// client's object table rather than just acknowledging the request
// (§4.2: "instantiate a resource of the requested interface").
func (s *State) handleRegistry(c *server.Client, r *object.Resource, msg wire.Message) error {
	if msg.Header.Opcode != 0 {
		return protocolErrorf("wl_registry", 0, 1, "invalid method")
	}
	name := msg.Args[0].Uint
	wantIface := msg.Args[1].String
	version := msg.Args[2].Uint
	newID := msg.Args[3].Uint

	iface, clamped, ok := s.Registry.Bind(name, version)
	if !ok {
		return protocolErrorf("wl_registry", 0, 0, "bind: unknown or removed global")
	}
	if iface != wantIface {
		return protocolErrorf("wl_registry", 0, 0, "bind: interface mismatch for global "+wantIface)
	}

	if err := s.initBoundResource(c, iface, newID, clamped, name); err != nil {
		return err
	}
	return nil
}

// initBoundResource finishes what Bind started: inserting the concrete
// resource into the client's object table and sending whatever initial
// burst of events that interface's bind contract requires.
func (s *State) initBoundResource(c *server.Client, iface string, newID, version, globalName uint32) error {
	switch iface {
	case "wl_compositor", "wl_subcompositor", "wl_shm", "xdg_wm_base",
		"wl_data_device_manager", "zwlr_layer_shell_v1", "zwlr_foreign_toplevel_manager_v1",
		"zxdg_decoration_manager_v1", "zwp_linux_dmabuf_v1", "wp_presentation",
		"wp_viewporter", "wp_fractional_scale_manager_v1", "zwp_relative_pointer_manager_v1",
		"zwp_pointer_constraints_v1", "xdg_activation_v1", "ext_idle_notifier_v1",
		"wp_single_pixel_buffer_manager_v1":
		if _, err := c.Table.Insert(newID, iface, version, nil); err != nil {
			return protocolErrorf("wl_registry", 0, 0, err.Error())
		}
		if iface == "wl_shm" {
			for _, f := range []buffer.Format{buffer.FormatARGB8888, buffer.FormatXRGB8888} {
				if err := c.Conn.EncodeAndSend(newID, 0, protocol.EventShmFormat, []wire.Arg{{Kind: wire.ArgUint, Uint: uint32(f)}}); err != nil {
					return err
				}
			}
		}
		return nil

	case "wl_output":
		outName := s.OutputGlobals[globalName]
		if _, err := c.Table.Insert(newID, iface, version, outName); err != nil {
			return protocolErrorf("wl_registry", 0, 0, err.Error())
		}
		return s.sendOutputBurst(c, newID, outName)

	case "wl_seat":
		if _, err := c.Table.Insert(newID, iface, version, s.Config.SeatName); err != nil {
			return protocolErrorf("wl_registry", 0, 0, err.Error())
		}
		return s.sendSeatBurst(c, newID, s.Config.SeatName)

	default:
		if _, err := c.Table.Insert(newID, iface, version, nil); err != nil {
			return protocolErrorf("wl_registry", 0, 0, err.Error())
		}
		return nil
	}
}

func (s *State) sendOutputBurst(c *server.Client, id uint32, outName string) error {
	out, ok := s.Outputs.Get(outName)
	if !ok {
		return nil // output vanished between bind and burst (hotplug race); done sends nothing more
	}
	bounds := out.GlobalBounds()
	if err := c.Conn.EncodeAndSend(id, 0, protocol.EventOutputGeometry, []wire.Arg{
		{Kind: wire.ArgInt, Int: bounds.X}, {Kind: wire.ArgInt, Int: bounds.Y},
		{Kind: wire.ArgInt, Int: out.PhysWidthMM}, {Kind: wire.ArgInt, Int: out.PhysHeightMM},
		{Kind: wire.ArgInt, Int: out.Subpixel}, {Kind: wire.ArgString, String: ""},
		{Kind: wire.ArgString, String: out.Name}, {Kind: wire.ArgInt, Int: 0},
	}); err != nil {
		return err
	}
	if err := c.Conn.EncodeAndSend(id, 1, protocol.EventOutputMode, []wire.Arg{
		{Kind: wire.ArgUint, Uint: 0x3}, // current | preferred
		{Kind: wire.ArgInt, Int: out.Mode.Width}, {Kind: wire.ArgInt, Int: out.Mode.Height},
		{Kind: wire.ArgInt, Int: out.Mode.RefreshMHz},
	}); err != nil {
		return err
	}
	if err := c.Conn.EncodeAndSend(id, 2, protocol.EventOutputScale, []wire.Arg{{Kind: wire.ArgInt, Int: int32(out.Scale)}}); err != nil {
		return err
	}
	return c.Conn.EncodeAndSend(id, 3, protocol.EventOutputDone, nil)
}

func (s *State) sendSeatBurst(c *server.Client, id uint32, seatName string) error {
	seat, ok := s.Seats[seatName]
	if !ok {
		return nil
	}
	var caps uint32
	if seat.HasCapability(input.CapPointer) {
		caps |= 1 // pointer bit position mirrors wl_seat.capability's pointer=1
	}
	if err := c.Conn.EncodeAndSend(id, 0, protocol.EventSeatCapabilities, []wire.Arg{{Kind: wire.ArgUint, Uint: caps}}); err != nil {
		return err
	}
	return c.Conn.EncodeAndSend(id, 1, protocol.EventSeatName, []wire.Arg{{Kind: wire.ArgString, String: seat.Name}})
}

func (s *State) handleOutput(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // release
		c.Table.Destroy(r.ID)
		return nil
	default:
		return protocolErrorf("wl_output", r.ID, 1, "invalid method")
	}
}

func (s *State) handleCompositor(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // create_surface
		newID := msg.Args[0].Uint
		surf := s.Tree.Create()
		if _, err := c.Table.Insert(newID, "wl_surface", r.Version, surf.ID()); err != nil {
			s.Tree.Destroy(surf.ID())
			return protocolErrorf("wl_compositor", r.ID, 0, err.Error())
		}
		return nil
	case 1: // create_region
		newID := msg.Args[0].Uint
		if _, err := c.Table.Insert(newID, "wl_region", r.Version, &surface.Region{}); err != nil {
			return protocolErrorf("wl_compositor", r.ID, 0, err.Error())
		}
		return nil
	default:
		return protocolErrorf("wl_compositor", r.ID, 1, "invalid method")
	}
}

func (s *State) handleSubcompositor(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 1: // get_subsurface
		newID := msg.Args[0].Uint
		childID, ok := surfaceIDOf(c, msg.Args[1].Uint)
		if !ok {
			return protocolErrorf("wl_subcompositor", r.ID, 0, "invalid surface object")
		}
		parentID, ok := surfaceIDOf(c, msg.Args[2].Uint)
		if !ok {
			return protocolErrorf("wl_subcompositor", r.ID, 0, "invalid parent surface object")
		}
		child := s.Tree.Get(childID)
		if child == nil || !child.SetRole(surface.RoleSubsurface) {
			return protocolErrorf("wl_subcompositor", r.ID, proto.SurfaceRoleErrorCode, "surface already has a role")
		}
		child.Synchronized = true
		s.Tree.SetParent(childID, parentID)
		if _, err := c.Table.Insert(newID, "wl_subsurface", r.Version, childID); err != nil {
			return protocolErrorf("wl_subcompositor", r.ID, 0, err.Error())
		}
		return nil
	default:
		return protocolErrorf("wl_subcompositor", r.ID, 1, "invalid method")
	}
}

func (s *State) handleSubsurface(c *server.Client, r *object.Resource, msg wire.Message) error {
	id := r.Data.(surface.ID)
	sf := s.Tree.Get(id)
	if sf == nil {
		return nil
	}
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 1: // set_position
		sf.PosX, sf.PosY = msg.Args[0].Int, msg.Args[1].Int
		return nil
	case 2: // place_above
		if sibID, ok := surfaceIDOf(c, msg.Args[0].Uint); ok {
			s.Tree.PlaceAbove(id, sibID)
		}
		return nil
	case 3: // place_below
		if sibID, ok := surfaceIDOf(c, msg.Args[0].Uint); ok {
			s.Tree.PlaceBelow(id, sibID)
		}
		return nil
	case 4: // set_sync
		sf.Synchronized = true
		return nil
	case 5: // set_desync
		sf.Synchronized = false
		return nil
	default:
		return protocolErrorf("wl_subsurface", r.ID, 1, "invalid method")
	}
}

// surfaceIDOf resolves a client object id bound to wl_surface (or a role
// object layered over one) to its arena surface.ID.
func surfaceIDOf(c *server.Client, objID uint32) (surface.ID, bool) {
	res, ok := c.Table.Lookup(objID)
	if !ok {
		return surface.NoID, false
	}
	id, ok := res.Data.(surface.ID)
	return id, ok
}

func (s *State) handleRegion(c *server.Client, r *object.Resource, msg wire.Message) error {
	reg := r.Data.(*surface.Region)
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 1: // add
		reg.Rects = append(reg.Rects, surface.Rect{X: msg.Args[0].Int, Y: msg.Args[1].Int, W: msg.Args[2].Int, H: msg.Args[3].Int})
		return nil
	case 2: // subtract
		cut := surface.Rect{X: msg.Args[0].Int, Y: msg.Args[1].Int, W: msg.Args[2].Int, H: msg.Args[3].Int}
		reg.Rects = subtractRect(reg.Rects, cut)
		return nil
	default:
		return protocolErrorf("wl_region", r.ID, 1, "invalid method")
	}
}

// subtractRect removes cut's area from every rect in rects, splitting a
// partially-overlapped rect into up to four remaining fragments. Opaque
// and input regions are advisory damage-optimization hints (§4.3), so an
// approximate decomposition is acceptable; exactness is not load-bearing.
func subtractRect(rects []surface.Rect, cut surface.Rect) []surface.Rect {
	out := make([]surface.Rect, 0, len(rects))
	for _, r := range rects {
		if !r.Intersects(cut) {
			out = append(out, r)
			continue
		}
		if cut.Y > r.Y {
			out = append(out, surface.Rect{X: r.X, Y: r.Y, W: r.W, H: cut.Y - r.Y})
		}
		if bottom := cut.Y + cut.H; bottom < r.Y+r.H {
			out = append(out, surface.Rect{X: r.X, Y: bottom, W: r.W, H: r.Y + r.H - bottom})
		}
		midTop, midBottom := max32(r.Y, cut.Y), min32(r.Y+r.H, cut.Y+cut.H)
		if midBottom > midTop {
			if cut.X > r.X {
				out = append(out, surface.Rect{X: r.X, Y: midTop, W: cut.X - r.X, H: midBottom - midTop})
			}
			if right := cut.X + cut.W; right < r.X+r.W {
				out = append(out, surface.Rect{X: right, Y: midTop, W: r.X + r.W - right, H: midBottom - midTop})
			}
		}
	}
	return out
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func (s *State) handleShm(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // create_pool
		newID := msg.Args[0].Uint
		fd := msg.Args[1].FD
		size := msg.Args[2].Int
		pool, err := buffer.NewSHMPool(fd, size)
		if err != nil {
			return protocolErrorf("wl_shm", r.ID, 0, err.Error())
		}
		if _, err := c.Table.Insert(newID, "wl_shm_pool", r.Version, pool); err != nil {
			pool.Close()
			return protocolErrorf("wl_shm", r.ID, 0, err.Error())
		}
		return nil
	default:
		return protocolErrorf("wl_shm", r.ID, 1, "invalid method")
	}
}

func (s *State) handleShmPool(c *server.Client, r *object.Resource, msg wire.Message) error {
	pool := r.Data.(*buffer.SHMPool)
	switch msg.Header.Opcode {
	case 0: // create_buffer
		newID := msg.Args[0].Uint
		offset, width, height, stride := msg.Args[1].Int, msg.Args[2].Int, msg.Args[3].Int, msg.Args[4].Int
		format := buffer.Format(msg.Args[5].Uint)
		buf, err := buffer.NewSHM(pool, offset, width, height, stride, format)
		if err != nil {
			return err
		}
		if _, err := c.Table.Insert(newID, "wl_buffer", 1, buf); err != nil {
			return protocolErrorf("wl_shm_pool", r.ID, 0, err.Error())
		}
		return nil
	case 1: // destroy
		pool.Close()
		c.Table.Destroy(r.ID)
		return nil
	case 2: // resize
		if err := pool.Resize(msg.Args[0].Int); err != nil {
			return protocolErrorf("wl_shm_pool", r.ID, 0, err.Error())
		}
		return nil
	default:
		return protocolErrorf("wl_shm_pool", r.ID, 1, "invalid method")
	}
}

func (s *State) handleBuffer(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	default:
		return protocolErrorf("wl_buffer", r.ID, 1, "invalid method")
	}
}

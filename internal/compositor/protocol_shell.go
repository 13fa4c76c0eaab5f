package compositor

import (
	"encoding/binary"

	"github.com/novawl/compositor/internal/object"
	"github.com/novawl/compositor/internal/proto"
	"github.com/novawl/compositor/internal/protocol"
	"github.com/novawl/compositor/internal/server"
	"github.com/novawl/compositor/internal/shell"
	"github.com/novawl/compositor/internal/surface"
	"github.com/novawl/compositor/internal/wire"
)

// hooksFor builds the commit hooks for a surface given whatever shell
// role it currently carries. Only xdg_toplevel/xdg_popup/layer_surface
// enforce the unconfigured_buffer error, and only when the incoming
// commit actually attaches a buffer: an empty initial commit before the
// first configure is the documented xdg-shell handshake, not a
// violation (§6).
func (s *State) hooksFor(id surface.ID) surface.Hooks {
	return surface.Hooks{
		PreCommit: func(sf *surface.Surface) error {
			if sf.Pending().Buffer == nil {
				return nil
			}
			switch sf.Role {
			case surface.RoleToplevel:
				if tl, ok := s.Toplevels[id]; ok {
					return tl.Configure.RequireConfigured()
				}
			case surface.RolePopup:
				if p, ok := s.Popups[id]; ok {
					return p.Configure.RequireConfigured()
				}
			case surface.RoleLayer:
				if l, ok := s.Layers[id]; ok {
					return l.Configure.RequireConfigured()
				}
			}
			return nil
		},
		PostCommit: func(sf *surface.Surface) {
			if sf.Role == surface.RoleToplevel && sf.Current().Buffer != nil {
				if tl, ok := s.Toplevels[id]; ok {
					s.Foreign.Map(id, tl.Title, tl.AppID)
				}
			}
		},
	}
}

func (s *State) handleXdgWmBase(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 1: // create_positioner
		newID := msg.Args[0].Uint
		if _, err := c.Table.Insert(newID, "xdg_positioner", r.Version, &shell.Positioner{}); err != nil {
			return protocolErrorf("xdg_wm_base", r.ID, 0, err.Error())
		}
		return nil
	case 2: // get_xdg_surface
		newID := msg.Args[0].Uint
		id, ok := surfaceIDOf(c, msg.Args[1].Uint)
		if !ok {
			return protocolErrorf("xdg_wm_base", r.ID, 0, "invalid surface object")
		}
		if _, err := c.Table.Insert(newID, "xdg_surface", r.Version, id); err != nil {
			return protocolErrorf("xdg_wm_base", r.ID, 0, err.Error())
		}
		s.XdgSurfaceObj[id] = newID
		return nil
	case 3: // pong
		return nil
	default:
		return protocolErrorf("xdg_wm_base", r.ID, 1, "invalid method")
	}
}

func (s *State) handleXdgPositioner(c *server.Client, r *object.Resource, msg wire.Message) error {
	p := r.Data.(*shell.Positioner)
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 1: // set_size
		p.Width, p.Height = msg.Args[0].Int, msg.Args[1].Int
		return nil
	case 2: // set_anchor_rect
		p.AnchorRect = surface.Rect{X: msg.Args[0].Int, Y: msg.Args[1].Int, W: msg.Args[2].Int, H: msg.Args[3].Int}
		return nil
	case 3: // set_anchor
		p.AnchorEdge = shell.Anchor(msg.Args[0].Uint)
		return nil
	case 4: // set_gravity
		p.Gravity = shell.Anchor(msg.Args[0].Uint)
		return nil
	case 5: // set_constraint_adjustment
		p.Adjustment = shell.ConstraintAdjustment(msg.Args[0].Uint)
		return nil
	case 6: // set_offset
		p.OffsetX, p.OffsetY = msg.Args[0].Int, msg.Args[1].Int
		return nil
	default:
		return protocolErrorf("xdg_positioner", r.ID, 1, "invalid method")
	}
}

func (s *State) handleXdgSurface(c *server.Client, r *object.Resource, msg wire.Message) error {
	id := r.Data.(surface.ID)
	sf := s.Tree.Get(id)
	if sf == nil {
		return nil
	}
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 1: // get_toplevel
		newID := msg.Args[0].Uint
		if !sf.SetRole(surface.RoleToplevel) {
			return protocolErrorf("xdg_toplevel", 0, proto.SurfaceRoleErrorCode, "surface already has a role")
		}
		tl := shell.NewToplevel(id)
		s.Toplevels[id] = tl
		if _, err := c.Table.Insert(newID, "xdg_toplevel", r.Version, id); err != nil {
			return protocolErrorf("xdg_surface", r.ID, 0, err.Error())
		}
		s.RoleObj[id] = newID
		return s.configureToplevel(c, id)
	case 2: // get_popup
		newID := msg.Args[0].Uint
		parentID, _ := surfaceIDOf(c, msg.Args[1].Uint) // parent may be 0/invalid: a top-level-less popup
		posRes, ok := c.Table.Lookup(msg.Args[2].Uint)
		if !ok || posRes.Interface != "xdg_positioner" {
			return protocolErrorf("xdg_surface", r.ID, 0, "invalid positioner object")
		}
		pos := *posRes.Data.(*shell.Positioner)
		if !sf.SetRole(surface.RolePopup) {
			return protocolErrorf("xdg_popup", 0, proto.SurfaceRoleErrorCode, "surface already has a role")
		}
		bounds := s.popupBounds(parentID)
		popup := shell.NewPopup(id, parentID, pos, bounds)
		s.Popups[id] = popup
		if _, err := c.Table.Insert(newID, "xdg_popup", r.Version, id); err != nil {
			return protocolErrorf("xdg_surface", r.ID, 0, err.Error())
		}
		s.RoleObj[id] = newID
		if parentID != surface.NoID {
			s.Tree.SetParent(id, parentID)
		}
		return s.configurePopup(c, id)
	case 3: // set_window_geometry
		return nil // geometry clipping is cosmetic; not load-bearing for this compositor's scene math
	case 4: // ack_configure
		serial := msg.Args[0].Uint
		switch sf.Role {
		case surface.RoleToplevel:
			if tl, ok := s.Toplevels[id]; ok {
				if err := tl.Configure.Ack(serial); err != nil {
					return err
				}
			}
		case surface.RolePopup:
			if p, ok := s.Popups[id]; ok {
				if err := p.Configure.Ack(serial); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return protocolErrorf("xdg_surface", r.ID, 1, "invalid method")
	}
}

// popupBounds resolves the available area a popup's positioner places
// against: the first connected output's bounds, or an empty rect with no
// outputs. parentID is not consulted, so a parent on another output does
// not change the bounds.
func (s *State) popupBounds(parentID surface.ID) surface.Rect {
	outputs := s.Outputs.All()
	if len(outputs) == 0 {
		return surface.Rect{}
	}
	return outputs[0].GlobalBounds()
}

func (s *State) configureToplevel(c *server.Client, id surface.ID) error {
	tl := s.Toplevels[id]
	serial := c.NextSerial()
	tl.Configure.Configure(serial)

	var states []byte
	if tl.Maximized {
		states = appendState(states, 1)
	}
	if tl.Fullscreen {
		states = appendState(states, 2)
	}
	if tl.Resizing {
		states = appendState(states, 3)
	}
	if tl.Activated {
		states = appendState(states, 4)
	}

	roleObj := s.RoleObj[id]
	if err := c.Conn.EncodeAndSend(roleObj, 0, protocol.EventXdgToplevelConfigure, []wire.Arg{
		{Kind: wire.ArgInt, Int: 0}, {Kind: wire.ArgInt, Int: 0}, {Kind: wire.ArgArray, Array: states},
	}); err != nil {
		return err
	}
	return c.Conn.EncodeAndSend(s.XdgSurfaceObj[id], 0, protocol.EventXdgSurfaceConfigure, []wire.Arg{{Kind: wire.ArgUint, Uint: serial}})
}

func (s *State) configurePopup(c *server.Client, id surface.ID) error {
	p := s.Popups[id]
	serial := c.NextSerial()
	p.Configure.Configure(serial)

	roleObj := s.RoleObj[id]
	if err := c.Conn.EncodeAndSend(roleObj, 0, protocol.EventXdgPopupConfigure, []wire.Arg{
		{Kind: wire.ArgInt, Int: p.Placement.X}, {Kind: wire.ArgInt, Int: p.Placement.Y},
		{Kind: wire.ArgInt, Int: p.Placement.W}, {Kind: wire.ArgInt, Int: p.Placement.H},
	}); err != nil {
		return err
	}
	return c.Conn.EncodeAndSend(s.XdgSurfaceObj[id], 0, protocol.EventXdgSurfaceConfigure, []wire.Arg{{Kind: wire.ArgUint, Uint: serial}})
}

func appendState(states []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(states, tmp[:]...)
}

func (s *State) handleXdgToplevel(c *server.Client, r *object.Resource, msg wire.Message) error {
	id := r.Data.(surface.ID)
	tl, ok := s.Toplevels[id]
	if !ok {
		return nil
	}
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 1: // set_parent
		if parentID, ok := surfaceIDOf(c, msg.Args[0].Uint); ok {
			tl.Parent = parentID
		} else {
			tl.Parent = surface.NoID
		}
		return nil
	case 2: // set_title
		tl.Title = msg.Args[0].String
		return nil
	case 3: // set_app_id
		tl.AppID = msg.Args[0].String
		return nil
	case 7: // set_max_size
		tl.MaxW, tl.MaxH = msg.Args[0].Int, msg.Args[1].Int
		return nil
	case 8: // set_min_size
		tl.MinW, tl.MinH = msg.Args[0].Int, msg.Args[1].Int
		return nil
	case 9: // set_maximized
		tl.Maximized = true
		return s.configureToplevel(c, id)
	case 10: // unset_maximized
		tl.Maximized = false
		return s.configureToplevel(c, id)
	case 11: // set_fullscreen
		tl.Fullscreen = true
		return s.configureToplevel(c, id)
	case 12: // unset_fullscreen
		tl.Fullscreen = false
		return s.configureToplevel(c, id)
	case 13: // set_minimized
		return nil // no "minimized" wire state to echo back; compositor-local only
	default:
		return protocolErrorf("xdg_toplevel", r.ID, 1, "invalid method")
	}
}

func (s *State) handleXdgPopup(c *server.Client, r *object.Resource, msg wire.Message) error {
	id := r.Data.(surface.ID)
	p, ok := s.Popups[id]
	if !ok {
		return nil
	}
	switch msg.Header.Opcode {
	case 0: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 1: // grab
		seatRes, ok := c.Table.Lookup(msg.Args[0].Uint)
		if !ok {
			return protocolErrorf("xdg_popup", r.ID, 0, "invalid seat object")
		}
		seatName, _ := seatRes.Data.(string)
		seat, ok := s.Seats[seatName]
		if !ok || !seat.AuthorizeGrab(msg.Args[1].Uint) {
			if err := c.Conn.EncodeAndSend(r.ID, 1, protocol.EventXdgPopupPopupDone, nil); err != nil {
				return err
			}
			return nil
		}
		p.Grabbed = true
		return nil
	default:
		return protocolErrorf("xdg_popup", r.ID, 1, "invalid method")
	}
}

func (s *State) handleLayerShell(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // get_layer_surface
		newID := msg.Args[0].Uint
		id, ok := surfaceIDOf(c, msg.Args[1].Uint)
		if !ok {
			return protocolErrorf("zwlr_layer_shell_v1", r.ID, 0, "invalid surface object")
		}
		sf := s.Tree.Get(id)
		if sf == nil || !sf.SetRole(surface.RoleLayer) {
			return protocolErrorf("zwlr_layer_surface_v1", 0, proto.SurfaceRoleErrorCode, "surface already has a role")
		}
		var outputName string
		if outObjID := msg.Args[2].Uint; outObjID != 0 {
			if outRes, ok := c.Table.Lookup(outObjID); ok {
				outputName, _ = outRes.Data.(string)
			}
		}
		layer := &shell.LayerSurfaceState{
			Surface:   id,
			Output:    outputName,
			Layer:     shell.Layer(msg.Args[3].Uint),
			Namespace: msg.Args[4].String,
		}
		s.Layers[id] = layer
		if _, err := c.Table.Insert(newID, "zwlr_layer_surface_v1", r.Version, id); err != nil {
			return protocolErrorf("zwlr_layer_shell_v1", r.ID, 0, err.Error())
		}
		s.RoleObj[id] = newID
		return nil
	default:
		return protocolErrorf("zwlr_layer_shell_v1", r.ID, 1, "invalid method")
	}
}

func (s *State) handleLayerSurface(c *server.Client, r *object.Resource, msg wire.Message) error {
	id := r.Data.(surface.ID)
	l, ok := s.Layers[id]
	if !ok {
		return nil
	}
	switch msg.Header.Opcode {
	case 0: // set_size
		l.DesiredWidth, l.DesiredHeight = int32(msg.Args[0].Uint), int32(msg.Args[1].Uint)
		return nil
	case 1: // set_anchor
		l.Anchor = shell.Anchor(msg.Args[0].Uint)
		return nil
	case 2: // set_exclusive_zone
		l.Exclusive = shell.ExclusiveZone(msg.Args[0].Int)
		return nil
	case 3: // set_margin
		l.MarginTop, l.MarginRight, l.MarginBottom, l.MarginLeft = msg.Args[0].Int, msg.Args[1].Int, msg.Args[2].Int, msg.Args[3].Int
		return nil
	case 4: // set_keyboard_interactivity
		return nil // no keyboard focus policy wired yet; accepted and ignored
	case 5: // get_popup
		return nil // popup/layer-surface parenting beyond bounds resolution not wired
	case 6: // ack_configure
		return l.Configure.Ack(msg.Args[0].Uint)
	case 7: // destroy
		delete(s.Layers, id)
		c.Table.Destroy(r.ID)
		return nil
	default:
		return protocolErrorf("zwlr_layer_surface_v1", r.ID, 1, "invalid method")
	}
}

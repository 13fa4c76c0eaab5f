package compositor

import (
	"github.com/novawl/compositor/internal/buffer"
	"github.com/novawl/compositor/internal/errs"
	"github.com/novawl/compositor/internal/object"
	"github.com/novawl/compositor/internal/protocol"
	"github.com/novawl/compositor/internal/server"
	"github.com/novawl/compositor/internal/surface"
	"github.com/novawl/compositor/internal/wire"
)

func (s *State) handleSurface(c *server.Client, r *object.Resource, msg wire.Message) error {
	id := r.Data.(surface.ID)
	sf := s.Tree.Get(id)
	if sf == nil {
		return nil
	}
	switch msg.Header.Opcode {
	case 0: // destroy
		s.destroySurface(id)
		c.Table.Destroy(r.ID)
		return nil

	case 1: // attach
		bufObjID := msg.Args[0].Uint
		if bufObjID == 0 {
			sf.Pending().Buffer = nil
			return nil
		}
		br, ok := c.Table.Lookup(bufObjID)
		if !ok || br.Interface != "wl_buffer" {
			return protocolErrorf("wl_surface", r.ID, 0, "attach: not a wl_buffer object")
		}
		buf := br.Data.(*buffer.Buffer)
		if buf.Inert {
			return nil
		}
		buf.SetReleaseCallback(func() {
			_ = c.Conn.EncodeAndSend(bufObjID, 0, protocol.EventBufferRelease, nil)
		})
		sf.Pending().Buffer = buf
		sf.Pending().BufferOffset = surface.Point{X: msg.Args[1].Int, Y: msg.Args[2].Int}
		return nil

	case 2: // damage
		sf.Pending().AddSurfaceDamage(surface.Rect{X: msg.Args[0].Int, Y: msg.Args[1].Int, W: msg.Args[2].Int, H: msg.Args[3].Int})
		return nil

	case 3: // frame
		newID := msg.Args[0].Uint
		if _, err := c.Table.Insert(newID, "wl_callback", 1, nil); err != nil {
			return protocolErrorf("wl_surface", r.ID, 0, err.Error())
		}
		sf.Pending().FrameCallbacks = append(sf.Pending().FrameCallbacks, newID)
		return nil

	case 4: // set_opaque_region
		sf.Pending().Opaque = s.regionArg(c, msg.Args[0].Uint)
		return nil

	case 5: // set_input_region
		sf.Pending().Input = s.regionArg(c, msg.Args[0].Uint)
		return nil

	case 6: // commit
		return s.commitSurface(c, id)

	case 7: // set_buffer_transform
		sf.Pending().BufferTransform = surface.Transform(msg.Args[0].Int)
		return nil

	case 8: // set_buffer_scale
		if msg.Args[0].Int <= 0 {
			return protocolErrorf("wl_surface", r.ID, 0, "invalid buffer scale")
		}
		sf.Pending().BufferScale = msg.Args[0].Int
		return nil

	case 9: // damage_buffer
		sf.Pending().AddBufferDamage(surface.Rect{X: msg.Args[0].Int, Y: msg.Args[1].Int, W: msg.Args[2].Int, H: msg.Args[3].Int})
		return nil

	default:
		return protocolErrorf("wl_surface", r.ID, 1, "invalid method")
	}
}

// regionArg resolves a wl_region request argument (0 means "unset") into
// a snapshot Region, since the client may destroy the wl_region object
// immediately after using it to set opaque/input state (§6).
func (s *State) regionArg(c *server.Client, objID uint32) surface.Region {
	if objID == 0 {
		return surface.Region{}
	}
	r, ok := c.Table.Lookup(objID)
	if !ok {
		return surface.Region{}
	}
	reg, ok := r.Data.(*surface.Region)
	if !ok {
		return surface.Region{}
	}
	return surface.Region{Rects: append([]surface.Rect(nil), reg.Rects...)}
}

// commitSurface runs the generic commit algorithm with this surface's
// role-specific pre/post hooks, then fires whatever buffer releases and
// frame callbacks the commit produced. Buffer release is fired
// immediately after commit rather than gated on a render fence: this
// compositor's renderer (internal/render) has no worker goroutine wired
// to the event loop yet, so there is no later point to defer release to.
func (s *State) commitSurface(c *server.Client, id surface.ID) error {
	hooks := s.hooksFor(id)
	results, err := s.Tree.Commit(id, hooks)
	if err != nil {
		if perr, ok := err.(*errs.Protocol); ok {
			return perr
		}
		return err
	}
	for _, res := range results {
		res.ReleasedBuffer.Fire()
		for _, cbID := range res.FrameCallbacks {
			if err := c.Conn.EncodeAndSend(cbID, 0, protocol.EventCallbackDone, []wire.Arg{{Kind: wire.ArgUint, Uint: 0}}); err != nil {
				return err
			}
			c.Table.Destroy(cbID)
		}
	}
	return nil
}

// destroySurface tears down a surface and whatever role state it owned.
// Subsurfaces are unlinked from their parent's child list but not
// recursively destroyed: the protocol leaves orphaned subsurfaces as the
// client's problem, matching upstream's documented teardown order.
func (s *State) destroySurface(id surface.ID) {
	if _, ok := s.Toplevels[id]; ok {
		s.Foreign.Close(id)
		delete(s.Toplevels, id)
	}
	delete(s.Popups, id)
	delete(s.Layers, id)
	s.Tree.Destroy(id)
}

package compositor

import (
	"github.com/novawl/compositor/internal/object"
	"github.com/novawl/compositor/internal/protocol"
	"github.com/novawl/compositor/internal/selection"
	"github.com/novawl/compositor/internal/server"
	"github.com/novawl/compositor/internal/surface"
	"github.com/novawl/compositor/internal/wire"
)

func (s *State) handleSeat(c *server.Client, r *object.Resource, msg wire.Message) error {
	seatName, _ := r.Data.(string)
	switch msg.Header.Opcode {
	case 0, 1, 2: // get_pointer, get_keyboard, get_touch
		newID := msg.Args[0].Uint
		iface := [3]string{"wl_pointer", "wl_keyboard", "wl_touch"}[msg.Header.Opcode]
		if _, err := c.Table.Insert(newID, iface, r.Version, seatName); err != nil {
			return protocolErrorf("wl_seat", r.ID, 0, err.Error())
		}
		return nil
	case 3: // release
		c.Table.Destroy(r.ID)
		return nil
	default:
		return protocolErrorf("wl_seat", r.ID, 1, "invalid method")
	}
}

// handleInputDevice serves wl_pointer/wl_keyboard/wl_touch, whose only
// requests (besides set_cursor) are release. Motion/button/key events
// themselves are never emitted: no input backend feeds libinput-style
// events into the seat yet (tracked as a known gap, not hidden).
func (s *State) handleInputDevice(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch r.Interface {
	case "wl_pointer":
		switch msg.Header.Opcode {
		case 0: // set_cursor
			return nil // cursor-surface presentation is not wired to the scene yet
		case 1: // release
			c.Table.Destroy(r.ID)
			return nil
		}
	case "wl_keyboard", "wl_touch":
		if msg.Header.Opcode == 0 {
			c.Table.Destroy(r.ID)
			return nil
		}
	}
	return protocolErrorf(r.Interface, r.ID, 1, "invalid method")
}

func (s *State) handleDataDeviceManager(c *server.Client, r *object.Resource, msg wire.Message) error {
	switch msg.Header.Opcode {
	case 0: // create_data_source
		newID := msg.Args[0].Uint
		src := selection.NewSource(nil,
			func(mimeType string, fd int) {
				_ = c.Conn.EncodeAndSend(newID, 0, protocol.EventDataSourceSend, []wire.Arg{
					{Kind: wire.ArgString, String: mimeType}, {Kind: wire.ArgFD, FD: fd},
				})
			},
			func() {
				_ = c.Conn.EncodeAndSend(newID, 1, protocol.EventDataSourceCancelled, nil)
			},
		)
		if _, err := c.Table.Insert(newID, "wl_data_source", r.Version, src); err != nil {
			return protocolErrorf("wl_data_device_manager", r.ID, 0, err.Error())
		}
		return nil
	case 1: // get_data_device
		newID := msg.Args[0].Uint
		seatRes, ok := c.Table.Lookup(msg.Args[1].Uint)
		if !ok {
			return protocolErrorf("wl_data_device_manager", r.ID, 0, "invalid seat object")
		}
		seatName, _ := seatRes.Data.(string)
		if _, err := c.Table.Insert(newID, "wl_data_device", r.Version, seatName); err != nil {
			return protocolErrorf("wl_data_device_manager", r.ID, 0, err.Error())
		}
		return nil
	default:
		return protocolErrorf("wl_data_device_manager", r.ID, 1, "invalid method")
	}
}

func (s *State) handleDataDevice(c *server.Client, r *object.Resource, msg wire.Message) error {
	seatName, _ := r.Data.(string)
	device, ok := s.Devices[seatName]
	switch msg.Header.Opcode {
	case 0: // start_drag
		if !ok {
			return nil
		}
		var src *selection.Source
		if srcObj := msg.Args[0].Uint; srcObj != 0 {
			if srcRes, ok := c.Table.Lookup(srcObj); ok {
				src, _ = srcRes.Data.(*selection.Source)
			}
		}
		originID, _ := surfaceIDOf(c, msg.Args[1].Uint)
		iconID := surface.NoID
		if iconObj := msg.Args[2].Uint; iconObj != 0 {
			iconID, _ = surfaceIDOf(c, iconObj)
		}
		device.BeginDrag(originID, iconID, src)
		return nil
	case 1: // set_selection
		if !ok {
			return nil
		}
		var src *selection.Source
		if srcObj := msg.Args[0].Uint; srcObj != 0 {
			if srcRes, ok := c.Table.Lookup(srcObj); ok {
				src, _ = srcRes.Data.(*selection.Source)
			}
		}
		device.SetSelection(src)
		return nil
	case 2: // release
		c.Table.Destroy(r.ID)
		return nil
	default:
		return protocolErrorf("wl_data_device", r.ID, 1, "invalid method")
	}
}

func (s *State) handleDataSource(c *server.Client, r *object.Resource, msg wire.Message) error {
	src := r.Data.(*selection.Source)
	switch msg.Header.Opcode {
	case 0: // offer
		src.MimeTypes = append(src.MimeTypes, msg.Args[0].String)
		return nil
	case 1: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 2: // set_actions
		return nil // no drag-action negotiation wired
	default:
		return protocolErrorf("wl_data_source", r.ID, 1, "invalid method")
	}
}

func (s *State) handleDataOffer(c *server.Client, r *object.Resource, msg wire.Message) error {
	offer, _ := r.Data.(*selection.Offer)
	switch msg.Header.Opcode {
	case 0: // accept
		return nil
	case 1: // receive
		if offer != nil {
			offer.Receive(msg.Args[0].String, msg.Args[1].FD)
		}
		return nil
	case 2: // destroy
		c.Table.Destroy(r.ID)
		return nil
	case 3: // finish
		return nil
	case 4: // set_actions
		return nil
	default:
		return protocolErrorf("wl_data_offer", r.ID, 1, "invalid method")
	}
}

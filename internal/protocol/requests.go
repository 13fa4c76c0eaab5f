// Package protocol carries the per-interface, per-opcode wire signature
// tables the dispatcher needs to decode requests and the compositor
// needs to encode events. It depends only on internal/wire, so the
// compositor package (which owns the actual request handlers) can import
// it without creating a cycle.
package protocol

import "github.com/novawl/compositor/internal/wire"

// requestTable maps an interface name to its opcode -> Signature table,
// covering every core interface (§6 MUST-implement list) plus the
// extension interfaces this compositor actually wires requests for.
var requestTable = map[string]map[uint16]wire.Signature{
	"wl_display": {
		0: {Name: "wl_display.sync", Kinds: k(wire.ArgNewID)},
		1: {Name: "wl_display.get_registry", Kinds: k(wire.ArgNewID)},
	},
	"wl_registry": {
		0: {Name: "wl_registry.bind", Kinds: k(wire.ArgUint, wire.ArgString, wire.ArgUint, wire.ArgNewID)},
	},
	"wl_callback": {},
	"wl_compositor": {
		0: {Name: "wl_compositor.create_surface", Kinds: k(wire.ArgNewID)},
		1: {Name: "wl_compositor.create_region", Kinds: k(wire.ArgNewID)},
	},
	"wl_subcompositor": {
		0: {Name: "wl_subcompositor.destroy", Kinds: k()},
		1: {Name: "wl_subcompositor.get_subsurface", Kinds: k(wire.ArgNewID, wire.ArgObject, wire.ArgObject)},
	},
	"wl_subsurface": {
		0: {Name: "wl_subsurface.destroy", Kinds: k()},
		1: {Name: "wl_subsurface.set_position", Kinds: k(wire.ArgInt, wire.ArgInt)},
		2: {Name: "wl_subsurface.place_above", Kinds: k(wire.ArgObject)},
		3: {Name: "wl_subsurface.place_below", Kinds: k(wire.ArgObject)},
		4: {Name: "wl_subsurface.set_sync", Kinds: k()},
		5: {Name: "wl_subsurface.set_desync", Kinds: k()},
	},
	"wl_surface": {
		0: {Name: "wl_surface.destroy", Kinds: k()},
		1: {Name: "wl_surface.attach", Kinds: k(wire.ArgObject, wire.ArgInt, wire.ArgInt)},
		2: {Name: "wl_surface.damage", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt)},
		3: {Name: "wl_surface.frame", Kinds: k(wire.ArgNewID)},
		4: {Name: "wl_surface.set_opaque_region", Kinds: k(wire.ArgObject)},
		5: {Name: "wl_surface.set_input_region", Kinds: k(wire.ArgObject)},
		6: {Name: "wl_surface.commit", Kinds: k()},
		7: {Name: "wl_surface.set_buffer_transform", Kinds: k(wire.ArgInt), MinVersion: 2},
		8: {Name: "wl_surface.set_buffer_scale", Kinds: k(wire.ArgInt), MinVersion: 3},
		9: {Name: "wl_surface.damage_buffer", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt), MinVersion: 4},
	},
	"wl_region": {
		0: {Name: "wl_region.destroy", Kinds: k()},
		1: {Name: "wl_region.add", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt)},
		2: {Name: "wl_region.subtract", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt)},
	},
	"wl_buffer": {
		0: {Name: "wl_buffer.destroy", Kinds: k()},
	},
	"wl_shm": {
		0: {Name: "wl_shm.create_pool", Kinds: k(wire.ArgNewID, wire.ArgFD, wire.ArgInt)},
	},
	"wl_shm_pool": {
		0: {Name: "wl_shm_pool.create_buffer", Kinds: k(wire.ArgNewID, wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgUint)},
		1: {Name: "wl_shm_pool.destroy", Kinds: k()},
		2: {Name: "wl_shm_pool.resize", Kinds: k(wire.ArgInt)},
	},
	"wl_output": {
		0: {Name: "wl_output.release", Kinds: k(), MinVersion: 3},
	},
	"wl_seat": {
		0: {Name: "wl_seat.get_pointer", Kinds: k(wire.ArgNewID)},
		1: {Name: "wl_seat.get_keyboard", Kinds: k(wire.ArgNewID)},
		2: {Name: "wl_seat.get_touch", Kinds: k(wire.ArgNewID)},
		3: {Name: "wl_seat.release", Kinds: k(), MinVersion: 5},
	},
	"wl_pointer": {
		0: {Name: "wl_pointer.set_cursor", Kinds: k(wire.ArgUint, wire.ArgObject, wire.ArgInt, wire.ArgInt)},
		1: {Name: "wl_pointer.release", Kinds: k(), MinVersion: 3},
	},
	"wl_keyboard": {
		0: {Name: "wl_keyboard.release", Kinds: k(), MinVersion: 3},
	},
	"wl_touch": {
		0: {Name: "wl_touch.release", Kinds: k(), MinVersion: 3},
	},
	"wl_data_device_manager": {
		0: {Name: "wl_data_device_manager.create_data_source", Kinds: k(wire.ArgNewID)},
		1: {Name: "wl_data_device_manager.get_data_device", Kinds: k(wire.ArgNewID, wire.ArgObject)},
	},
	"wl_data_device": {
		0: {Name: "wl_data_device.start_drag", Kinds: k(wire.ArgObject, wire.ArgObject, wire.ArgObject, wire.ArgUint)},
		1: {Name: "wl_data_device.set_selection", Kinds: k(wire.ArgObject, wire.ArgUint)},
		2: {Name: "wl_data_device.release", Kinds: k(), MinVersion: 2},
	},
	"wl_data_source": {
		0: {Name: "wl_data_source.offer", Kinds: k(wire.ArgString)},
		1: {Name: "wl_data_source.destroy", Kinds: k()},
		2: {Name: "wl_data_source.set_actions", Kinds: k(wire.ArgUint), MinVersion: 3},
	},
	"wl_data_offer": {
		0: {Name: "wl_data_offer.accept", Kinds: k(wire.ArgUint, wire.ArgString)},
		1: {Name: "wl_data_offer.receive", Kinds: k(wire.ArgString, wire.ArgFD)},
		2: {Name: "wl_data_offer.destroy", Kinds: k()},
		3: {Name: "wl_data_offer.finish", Kinds: k(), MinVersion: 3},
		4: {Name: "wl_data_offer.set_actions", Kinds: k(wire.ArgUint, wire.ArgUint), MinVersion: 3},
	},

	"xdg_wm_base": {
		0: {Name: "xdg_wm_base.destroy", Kinds: k()},
		1: {Name: "xdg_wm_base.create_positioner", Kinds: k(wire.ArgNewID)},
		2: {Name: "xdg_wm_base.get_xdg_surface", Kinds: k(wire.ArgNewID, wire.ArgObject)},
		3: {Name: "xdg_wm_base.pong", Kinds: k(wire.ArgUint)},
	},
	"xdg_positioner": {
		0: {Name: "xdg_positioner.destroy", Kinds: k()},
		1: {Name: "xdg_positioner.set_size", Kinds: k(wire.ArgInt, wire.ArgInt)},
		2: {Name: "xdg_positioner.set_anchor_rect", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt)},
		3: {Name: "xdg_positioner.set_anchor", Kinds: k(wire.ArgUint)},
		4: {Name: "xdg_positioner.set_gravity", Kinds: k(wire.ArgUint)},
		5: {Name: "xdg_positioner.set_constraint_adjustment", Kinds: k(wire.ArgUint)},
		6: {Name: "xdg_positioner.set_offset", Kinds: k(wire.ArgInt, wire.ArgInt)},
	},
	"xdg_surface": {
		0: {Name: "xdg_surface.destroy", Kinds: k()},
		1: {Name: "xdg_surface.get_toplevel", Kinds: k(wire.ArgNewID)},
		2: {Name: "xdg_surface.get_popup", Kinds: k(wire.ArgNewID, wire.ArgObject, wire.ArgObject)},
		3: {Name: "xdg_surface.set_window_geometry", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt)},
		4: {Name: "xdg_surface.ack_configure", Kinds: k(wire.ArgUint)},
	},
	"xdg_toplevel": {
		0:  {Name: "xdg_toplevel.destroy", Kinds: k()},
		1:  {Name: "xdg_toplevel.set_parent", Kinds: k(wire.ArgObject)},
		2:  {Name: "xdg_toplevel.set_title", Kinds: k(wire.ArgString)},
		3:  {Name: "xdg_toplevel.set_app_id", Kinds: k(wire.ArgString)},
		7:  {Name: "xdg_toplevel.set_max_size", Kinds: k(wire.ArgInt, wire.ArgInt)},
		8:  {Name: "xdg_toplevel.set_min_size", Kinds: k(wire.ArgInt, wire.ArgInt)},
		9:  {Name: "xdg_toplevel.set_maximized", Kinds: k()},
		10: {Name: "xdg_toplevel.unset_maximized", Kinds: k()},
		11: {Name: "xdg_toplevel.set_fullscreen", Kinds: k(wire.ArgObject)},
		12: {Name: "xdg_toplevel.unset_fullscreen", Kinds: k()},
		13: {Name: "xdg_toplevel.set_minimized", Kinds: k()},
	},
	"xdg_popup": {
		0: {Name: "xdg_popup.destroy", Kinds: k()},
		1: {Name: "xdg_popup.grab", Kinds: k(wire.ArgObject, wire.ArgUint)},
	},

	"zwlr_layer_shell_v1": {
		0: {Name: "zwlr_layer_shell_v1.get_layer_surface", Kinds: k(wire.ArgNewID, wire.ArgObject, wire.ArgObject, wire.ArgUint, wire.ArgString)},
	},
	"zwlr_layer_surface_v1": {
		0: {Name: "zwlr_layer_surface_v1.set_size", Kinds: k(wire.ArgUint, wire.ArgUint)},
		1: {Name: "zwlr_layer_surface_v1.set_anchor", Kinds: k(wire.ArgUint)},
		2: {Name: "zwlr_layer_surface_v1.set_exclusive_zone", Kinds: k(wire.ArgInt)},
		3: {Name: "zwlr_layer_surface_v1.set_margin", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt)},
		4: {Name: "zwlr_layer_surface_v1.set_keyboard_interactivity", Kinds: k(wire.ArgUint)},
		5: {Name: "zwlr_layer_surface_v1.get_popup", Kinds: k(wire.ArgObject)},
		6: {Name: "zwlr_layer_surface_v1.ack_configure", Kinds: k(wire.ArgUint)},
		7: {Name: "zwlr_layer_surface_v1.destroy", Kinds: k()},
	},
	"zwlr_foreign_toplevel_manager_v1": {
		0: {Name: "zwlr_foreign_toplevel_manager_v1.stop", Kinds: k()},
	},
}

// k is a terse constructor for a Signature's Kinds list, used throughout
// this table to keep each opcode on one line.
func k(kinds ...wire.ArgKind) []wire.ArgKind { return kinds }

// Resolve looks up the Signature for iface's opcode, implementing
// server.SignatureResolver against the static table above.
func Resolve(iface string, opcode uint16) (wire.Signature, bool) {
	ops, ok := requestTable[iface]
	if !ok {
		return wire.Signature{}, false
	}
	sig, ok := ops[opcode]
	return sig, ok
}

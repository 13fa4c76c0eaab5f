package protocol

import "github.com/novawl/compositor/internal/wire"

// Server-emitted event signatures, named EventXxx so call sites read like
// the request they answer. Encode calls pass these directly.
var (
	EventDisplayError     = wire.Signature{Name: "wl_display.error", Kinds: k(wire.ArgObject, wire.ArgUint, wire.ArgString)}
	EventDisplayDeleteID  = wire.Signature{Name: "wl_display.delete_id", Kinds: k(wire.ArgUint)}

	EventRegistryGlobal       = wire.Signature{Name: "wl_registry.global", Kinds: k(wire.ArgUint, wire.ArgString, wire.ArgUint)}
	EventRegistryGlobalRemove = wire.Signature{Name: "wl_registry.global_remove", Kinds: k(wire.ArgUint)}

	EventCallbackDone = wire.Signature{Name: "wl_callback.done", Kinds: k(wire.ArgUint)}

	EventOutputGeometry = wire.Signature{Name: "wl_output.geometry", Kinds: k(
		wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgString, wire.ArgString, wire.ArgInt,
	)}
	EventOutputMode  = wire.Signature{Name: "wl_output.mode", Kinds: k(wire.ArgUint, wire.ArgInt, wire.ArgInt, wire.ArgInt)}
	EventOutputScale = wire.Signature{Name: "wl_output.scale", Kinds: k(wire.ArgInt)}
	EventOutputDone  = wire.Signature{Name: "wl_output.done", Kinds: k()}

	EventShmFormat = wire.Signature{Name: "wl_shm.format", Kinds: k(wire.ArgUint)}

	EventBufferRelease = wire.Signature{Name: "wl_buffer.release", Kinds: k()}

	EventSurfaceEnter = wire.Signature{Name: "wl_surface.enter", Kinds: k(wire.ArgObject)}
	EventSurfaceLeave = wire.Signature{Name: "wl_surface.leave", Kinds: k(wire.ArgObject)}

	EventSeatCapabilities = wire.Signature{Name: "wl_seat.capabilities", Kinds: k(wire.ArgUint)}
	EventSeatName         = wire.Signature{Name: "wl_seat.name", Kinds: k(wire.ArgString)}

	EventPointerEnter  = wire.Signature{Name: "wl_pointer.enter", Kinds: k(wire.ArgUint, wire.ArgObject, wire.ArgFixed, wire.ArgFixed)}
	EventPointerLeave  = wire.Signature{Name: "wl_pointer.leave", Kinds: k(wire.ArgUint, wire.ArgObject)}
	EventPointerMotion = wire.Signature{Name: "wl_pointer.motion", Kinds: k(wire.ArgUint, wire.ArgFixed, wire.ArgFixed)}
	EventPointerButton = wire.Signature{Name: "wl_pointer.button", Kinds: k(wire.ArgUint, wire.ArgUint, wire.ArgUint, wire.ArgUint)}
	EventPointerAxis   = wire.Signature{Name: "wl_pointer.axis", Kinds: k(wire.ArgUint, wire.ArgUint, wire.ArgFixed)}
	EventPointerFrame  = wire.Signature{Name: "wl_pointer.frame", Kinds: k()}

	EventKeyboardKeymap     = wire.Signature{Name: "wl_keyboard.keymap", Kinds: k(wire.ArgUint, wire.ArgFD, wire.ArgUint)}
	EventKeyboardEnter      = wire.Signature{Name: "wl_keyboard.enter", Kinds: k(wire.ArgUint, wire.ArgObject, wire.ArgArray)}
	EventKeyboardLeave      = wire.Signature{Name: "wl_keyboard.leave", Kinds: k(wire.ArgUint, wire.ArgObject)}
	EventKeyboardKey        = wire.Signature{Name: "wl_keyboard.key", Kinds: k(wire.ArgUint, wire.ArgUint, wire.ArgUint, wire.ArgUint)}
	EventKeyboardModifiers  = wire.Signature{Name: "wl_keyboard.modifiers", Kinds: k(wire.ArgUint, wire.ArgUint, wire.ArgUint, wire.ArgUint, wire.ArgUint)}

	EventDataDeviceDataOffer  = wire.Signature{Name: "wl_data_device.data_offer", Kinds: k(wire.ArgNewID)}
	EventDataDeviceEnter      = wire.Signature{Name: "wl_data_device.enter", Kinds: k(wire.ArgUint, wire.ArgObject, wire.ArgFixed, wire.ArgFixed, wire.ArgObject)}
	EventDataDeviceLeave      = wire.Signature{Name: "wl_data_device.leave", Kinds: k()}
	EventDataDeviceMotion     = wire.Signature{Name: "wl_data_device.motion", Kinds: k(wire.ArgUint, wire.ArgFixed, wire.ArgFixed)}
	EventDataDeviceDrop       = wire.Signature{Name: "wl_data_device.drop", Kinds: k()}
	EventDataDeviceSelection  = wire.Signature{Name: "wl_data_device.selection", Kinds: k(wire.ArgObject)}

	EventDataOfferOffer  = wire.Signature{Name: "wl_data_offer.offer", Kinds: k(wire.ArgString)}
	EventDataSourceSend    = wire.Signature{Name: "wl_data_source.send", Kinds: k(wire.ArgString, wire.ArgFD)}
	EventDataSourceCancelled = wire.Signature{Name: "wl_data_source.cancelled", Kinds: k()}

	EventXdgWmBasePing = wire.Signature{Name: "xdg_wm_base.ping", Kinds: k(wire.ArgUint)}

	EventXdgSurfaceConfigure = wire.Signature{Name: "xdg_surface.configure", Kinds: k(wire.ArgUint)}

	EventXdgToplevelConfigure = wire.Signature{Name: "xdg_toplevel.configure", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgArray)}
	EventXdgToplevelClose     = wire.Signature{Name: "xdg_toplevel.close", Kinds: k()}

	EventXdgPopupConfigure     = wire.Signature{Name: "xdg_popup.configure", Kinds: k(wire.ArgInt, wire.ArgInt, wire.ArgInt, wire.ArgInt)}
	EventXdgPopupPopupDone     = wire.Signature{Name: "xdg_popup.popup_done", Kinds: k()}

	EventLayerSurfaceConfigure = wire.Signature{Name: "zwlr_layer_surface_v1.configure", Kinds: k(wire.ArgUint, wire.ArgUint, wire.ArgUint)}
	EventLayerSurfaceClosed    = wire.Signature{Name: "zwlr_layer_surface_v1.closed", Kinds: k()}

	EventForeignToplevelManagerToplevel = wire.Signature{Name: "zwlr_foreign_toplevel_manager_v1.toplevel", Kinds: k(wire.ArgNewID)}
	EventForeignToplevelHandleTitle     = wire.Signature{Name: "zwlr_foreign_toplevel_handle_v1.title", Kinds: k(wire.ArgString)}
	EventForeignToplevelHandleAppID     = wire.Signature{Name: "zwlr_foreign_toplevel_handle_v1.app_id", Kinds: k(wire.ArgString)}
	EventForeignToplevelHandleState     = wire.Signature{Name: "zwlr_foreign_toplevel_handle_v1.state", Kinds: k(wire.ArgArray)}
	EventForeignToplevelHandleDone      = wire.Signature{Name: "zwlr_foreign_toplevel_handle_v1.done", Kinds: k()}
	EventForeignToplevelHandleClosed    = wire.Signature{Name: "zwlr_foreign_toplevel_handle_v1.closed", Kinds: k()}
)

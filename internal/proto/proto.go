// Package proto carries the protocol-level constants the compositor must
// report exactly as specified upstream (§6): the core interface names it
// implements, the extension interfaces it supports, and the closed sets
// of per-interface error codes.
package proto

// CoreInterfaces lists the interfaces the compositor MUST implement
// (§6). Extensions are listed separately in ExtensionInterfaces.
var CoreInterfaces = []string{
	"wl_display", "wl_registry", "wl_callback", "wl_compositor",
	"wl_subcompositor", "wl_surface", "wl_region", "wl_buffer", "wl_shm",
	"wl_shm_pool", "wl_output", "wl_seat", "wl_keyboard", "wl_pointer",
	"wl_touch", "wl_data_device_manager", "wl_data_device",
	"wl_data_source", "wl_data_offer",
}

// ExtensionInterfaces lists the protocol extensions the compositor
// advertises via the registry (§6).
var ExtensionInterfaces = []string{
	"xdg_wm_base", "xdg_toplevel", "xdg_popup", "xdg_positioner",
	"zxdg_decoration_manager_v1", "zwlr_layer_shell_v1",
	"zwp_linux_dmabuf_v1", "wp_presentation", "wp_viewporter",
	"wp_fractional_scale_manager_v1", "zwp_relative_pointer_manager_v1",
	"zwp_pointer_constraints_v1", "zwp_text_input_manager_v3",
	"zwp_input_method_manager_v2", "xdg_activation_v1",
	"zwlr_foreign_toplevel_manager_v1", "ext_idle_notifier_v1",
	"wp_single_pixel_buffer_manager_v1",
}

// DisplayErrorCode is the wl_display.error code set emitted by the wire
// codec's error policy (§4.1).
type DisplayErrorCode uint32

const (
	DisplayErrorInvalidObject     DisplayErrorCode = 0
	DisplayErrorInvalidMethod     DisplayErrorCode = 1
	DisplayErrorNoMemory          DisplayErrorCode = 2
	DisplayErrorImplementation    DisplayErrorCode = 3
)

// SurfaceErrorCode is wl_surface's closed error set.
type SurfaceErrorCode uint32

const (
	SurfaceErrorInvalidScale     SurfaceErrorCode = 0
	SurfaceErrorInvalidTransform SurfaceErrorCode = 1
	SurfaceErrorInvalidSize      SurfaceErrorCode = 2
	SurfaceErrorInvalidOffset    SurfaceErrorCode = 3
)

// XdgSurfaceErrorCode is xdg_surface's closed error set.
type XdgSurfaceErrorCode uint32

const (
	XdgSurfaceErrorNotConstructed     XdgSurfaceErrorCode = 1
	XdgSurfaceErrorAlreadyConstructed XdgSurfaceErrorCode = 2
	XdgSurfaceErrorUnconfiguredBuffer XdgSurfaceErrorCode = 3
)

// XdgToplevelErrorCode is xdg_toplevel's closed error set. The
// role-conflict error is not one of these; it is SurfaceRoleErrorCode.
type XdgToplevelErrorCode uint32

const (
	XdgToplevelErrorInvalidResizeEdge XdgToplevelErrorCode = 0
	XdgToplevelErrorInvalidParent     XdgToplevelErrorCode = 1
	XdgToplevelErrorInvalidSize       XdgToplevelErrorCode = 2
)

// SurfaceRoleErrorCode is the generic "role" error shared by every
// surface-role-binding interface (xdg_surface.get_toplevel,
// wl_subcompositor.get_subsurface, ...) when a surface's role was
// already set to something else.
const SurfaceRoleErrorCode uint32 = 0

// LinuxDMABufErrorCode is zwp_linux_buffer_params_v1's closed error set.
type LinuxDMABufErrorCode uint32

const (
	LinuxDMABufErrorPlaneIdx         LinuxDMABufErrorCode = 0
	LinuxDMABufErrorPlaneSet         LinuxDMABufErrorCode = 1
	LinuxDMABufErrorIncomplete       LinuxDMABufErrorCode = 2
	LinuxDMABufErrorInvalidFormat    LinuxDMABufErrorCode = 3
	LinuxDMABufErrorInvalidDimensions LinuxDMABufErrorCode = 4
	LinuxDMABufErrorOutOfBounds      LinuxDMABufErrorCode = 5
	LinuxDMABufErrorInvalidWlBuffer  LinuxDMABufErrorCode = 6
)

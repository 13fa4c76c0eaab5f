package compositor

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/novawl/compositor/internal/config"
	"github.com/novawl/compositor/internal/displaybackend"
	"github.com/novawl/compositor/internal/input"
	"github.com/novawl/compositor/internal/registry"
	"github.com/novawl/compositor/internal/render"
	"github.com/novawl/compositor/internal/scene"
	"github.com/novawl/compositor/internal/selection"
	"github.com/novawl/compositor/internal/server"
	"github.com/novawl/compositor/internal/shell"
	"github.com/novawl/compositor/internal/shell/foreign"
	"github.com/novawl/compositor/internal/surface"
)

// RenderJob is a snapshot of work handed to the renderer thread: owned
// resource handles plus immutable draw parameters, never a live
// reference into scene state (§5 "Worker threads").
type RenderJob struct {
	Output   string
	Surfaces []surface.ID
	Scissor  surface.Rect
}

// RenderCompletion is the renderer thread's report back to the loop:
// which job finished and what texture backs the composited frame.
type RenderCompletion struct {
	Output string
	Frame  displaybackend.Frame
	Err    error
}

// State is the single owned record described in §9's design notes: every
// subsystem hangs off it, and only the loop goroutine ever mutates it.
type State struct {
	Config config.Compositor

	Tree     *surface.Tree
	Registry *registry.Registry
	Outputs  *scene.Inventory
	Seats    map[string]*input.Seat
	Devices  map[string]*selection.Device
	Foreign  *foreign.Manager

	// Toplevels/Popups/Layers hold the shell role state for every mapped
	// surface of that role, keyed by the surface's arena id rather than
	// its xdg_toplevel/xdg_popup/layer_surface wire object id, since the
	// commit pre/post hooks only ever see the surface id.
	Toplevels map[surface.ID]*shell.ToplevelState
	Popups    map[surface.ID]*shell.PopupState
	Layers    map[surface.ID]*shell.LayerSurfaceState

	// OutputGlobals maps a registry global name to the output name it
	// advertises, so wl_registry.bind can find which connector a given
	// wl_output global binds to.
	OutputGlobals map[uint32]string

	// XdgSurfaceObj and RoleObj record, for a surface with an xdg shell
	// role, the wire object ids of its xdg_surface and its
	// xdg_toplevel/xdg_popup/zwlr_layer_surface_v1 role object, so a
	// later request (e.g. set_maximized) can address a fresh configure
	// event back at the same client.
	XdgSurfaceObj map[surface.ID]uint32
	RoleObj       map[surface.ID]uint32

	Clients map[uint32]*server.Client

	Render  render.Backend
	Display displaybackend.Backend

	renderJobs       chan RenderJob
	renderCompletion chan RenderCompletion

	loop *EventLoop
}

// New constructs a State with every subsystem initialized but not yet
// running: no listener bound and no renderer job in-flight. When disp is
// non-nil, one output is added per connector it enumerates; with a nil
// disp there are no outputs.
func New(cfg config.Compositor, disp displaybackend.Backend) (*State, error) {
	backend, err := render.SelectBestBackend()
	if err != nil {
		return nil, fmt.Errorf("compositor: selecting render backend: %w", err)
	}
	log.Info().Str("backend", backend.Name()).Bool("zero_copy", backend.ZeroCopyCapable()).Msg("renderer selected")

	s := &State{
		Config:           cfg,
		Tree:             surface.NewTree(),
		Registry:         registry.New(),
		Outputs:          scene.NewInventory(),
		Seats:            make(map[string]*input.Seat),
		Devices:          make(map[string]*selection.Device),
		Toplevels:        make(map[surface.ID]*shell.ToplevelState),
		Popups:           make(map[surface.ID]*shell.PopupState),
		Layers:           make(map[surface.ID]*shell.LayerSurfaceState),
		OutputGlobals:    make(map[uint32]string),
		XdgSurfaceObj:    make(map[surface.ID]uint32),
		RoleObj:          make(map[surface.ID]uint32),
		Clients:          make(map[uint32]*server.Client),
		Render:           backend,
		Display:          disp,
		renderJobs:       make(chan RenderJob, 8),
		renderCompletion: make(chan RenderCompletion, 8),
	}
	s.Foreign = foreign.NewManager(s.onForeignEvent)

	seat := input.NewSeat(cfg.SeatName, input.CapKeyboard|input.CapPointer|input.CapTouch)
	s.Seats[cfg.SeatName] = seat
	s.Devices[cfg.SeatName] = selection.NewDevice(cfg.SeatName)

	if disp != nil {
		connectors, err := disp.EnumerateConnectors()
		if err != nil {
			return nil, fmt.Errorf("compositor: enumerating display connectors: %w", err)
		}
		for i, c := range connectors {
			mode := scene.Mode{}
			if len(c.Modes) > 0 {
				idx := c.PreferredIdx
				if idx < 0 || idx >= len(c.Modes) {
					idx = 0
				}
				mode = scene.Mode{Width: c.Modes[idx].Width, Height: c.Modes[idx].Height, RefreshMHz: c.Modes[idx].RefreshMHz}
			}
			out := scene.NewOutput(c.Name, mode, 1.0, int32(i)*mode.Width, 0)
			out.PhysWidthMM = c.PhysWidthMM
			out.PhysHeightMM = c.PhysHeightMM
			s.Outputs.Add(out)
		}
	}

	s.advertiseCoreGlobals()

	return s, nil
}

// advertiseCoreGlobals registers every stable, singleton global plus one
// wl_output global per enumerated connector (§6: a multi-monitor
// compositor advertises one wl_output per connected display, not a
// single flat entry regardless of connector count).
func (s *State) advertiseCoreGlobals() {
	for _, iface := range []string{
		"wl_compositor", "wl_subcompositor", "wl_shm", "wl_seat",
		"wl_data_device_manager", "xdg_wm_base", "zxdg_decoration_manager_v1",
		"zwlr_layer_shell_v1", "zwp_linux_dmabuf_v1", "wp_presentation",
		"wp_viewporter", "wp_fractional_scale_manager_v1",
		"zwp_relative_pointer_manager_v1", "zwp_pointer_constraints_v1",
		"xdg_activation_v1", "zwlr_foreign_toplevel_manager_v1",
		"ext_idle_notifier_v1", "wp_single_pixel_buffer_manager_v1",
	} {
		s.Registry.Add(iface, 1)
	}
	for _, out := range s.Outputs.All() {
		g := s.Registry.Add("wl_output", 3)
		s.OutputGlobals[g.Name] = out.Name
	}
}

func (s *State) onForeignEvent(kind foreign.EventKind, e foreign.Entry) {
	log.Debug().Int("kind", int(kind)).Int("toplevel", int(e.Toplevel)).Str("title", e.Title).Msg("foreign-toplevel update")
}

// SubmitRenderJob enqueues a render job for the worker thread, per §5's
// SPSC-queue-of-render-jobs model. It never blocks the loop: a full
// queue means the output already has a frame in flight, so the job is
// dropped and the next repaint will pick up accumulated damage anyway.
func (s *State) SubmitRenderJob(job RenderJob) {
	select {
	case s.renderJobs <- job:
	default:
		log.Warn().Str("output", job.Output).Msg("render queue full, dropping frame")
	}
}

// RenderJobs exposes the job queue for the renderer worker goroutine.
func (s *State) RenderJobs() <-chan RenderJob { return s.renderJobs }

// ReportRenderCompletion is called by the renderer worker once a job's
// command buffer is submitted; the loop polls this via the event loop's
// completion-channel integration (§5 "a completion channel of
// fences/events polled by the loop").
func (s *State) ReportRenderCompletion(c RenderCompletion) {
	s.renderCompletion <- c
}

// RenderCompletions exposes the completion channel for the loop to poll.
func (s *State) RenderCompletions() <-chan RenderCompletion { return s.renderCompletion }

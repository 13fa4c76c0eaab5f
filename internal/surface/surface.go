// Package surface implements the double-buffered surface state machine,
// damage accumulation, role binding, and the subsurface tree.
package surface

import (
	"github.com/novawl/compositor/internal/buffer"
)

// Role is the one-shot classification of a surface (§3). Once set away
// from RoleUnassigned it must never change (invariant (i)).
type Role int

const (
	RoleUnassigned Role = iota
	RoleCursor
	RoleDragIcon
	RoleSubsurface
	RoleToplevel
	RolePopup
	RoleLayer
)

func (r Role) String() string {
	switch r {
	case RoleCursor:
		return "cursor"
	case RoleDragIcon:
		return "drag_icon"
	case RoleSubsurface:
		return "subsurface"
	case RoleToplevel:
		return "toplevel"
	case RolePopup:
		return "popup"
	case RoleLayer:
		return "layer"
	default:
		return "unassigned"
	}
}

// Rect is an axis-aligned integer rectangle in some coordinate space
// (surface-local, buffer-local, or global, depending on context).
type Rect struct {
	X, Y, W, H int32
}

// Empty reports whether r covers zero area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min32(r.X, o.X), min32(r.Y, o.Y)
	x1, y1 := max32(r.X+r.W, o.X+o.W), max32(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Clip intersects r against bounds, returning an empty rect when they
// don't overlap (used to enforce invariants (ii)/(iii)).
func (r Rect) Clip(bounds Rect) Rect {
	x0, y0 := max32(r.X, bounds.X), max32(r.Y, bounds.Y)
	x1, y1 := min32(r.X+r.W, bounds.X+bounds.W), min32(r.Y+r.H, bounds.Y+bounds.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Transform is a buffer transform (rotation/flip), per wl_output.transform.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Region is a set of rectangles describing an opaque or input region.
type Region struct {
	Rects []Rect
}

// Point is an integer 2D point, used for buffer offsets.
type Point struct{ X, Y int32 }

// State is one half of a surface's double buffer (§3): either the
// pending record requests write into, or the current record the scene
// reads from.
type State struct {
	Buffer        *buffer.Buffer
	BufferOffset  Point
	BufferScale   int32
	BufferTransform Transform
	SurfaceDamage []Rect
	BufferDamage  []Rect
	Opaque        Region
	Input         Region
	ViewportSrc   *Rect // nil: no crop
	ViewportDstW  int32 // 0: no scale-to-destination
	ViewportDstH  int32
	FrameCallbacks []uint32
}

func newState() State {
	return State{BufferScale: 1}
}

// clone returns a deep-enough copy of s for caching against a parent
// commit (synchronized subsurfaces, §4.3 step 2).
func (s State) clone() State {
	cp := s
	cp.SurfaceDamage = append([]Rect(nil), s.SurfaceDamage...)
	cp.BufferDamage = append([]Rect(nil), s.BufferDamage...)
	cp.Opaque.Rects = append([]Rect(nil), s.Opaque.Rects...)
	cp.Input.Rects = append([]Rect(nil), s.Input.Rects...)
	cp.FrameCallbacks = append([]uint32(nil), s.FrameCallbacks...)
	return cp
}

// ID identifies a surface within a Tree's arena.
type ID int

const NoID ID = -1

// Surface is the central mutable entity of §3.
type Surface struct {
	id ID

	Role Role

	pending State
	current State

	// Parent/Children model the subsurface tree as arena indices (§9):
	// strong downward ownership via Children, weak upward navigation via
	// Parent, avoiding owner cycles.
	Parent   ID
	Children []ID

	Synchronized bool // subsurfaces only; desync applies immediately
	PosX, PosY   int32 // subsurface position relative to parent

	// cached holds a synchronized subsurface's most recently committed
	// state, awaiting the parent's next commit (§4.3 step 2).
	cached *State

	// AckedConfigureSerial and HasConfigured are not written by the
	// shell handlers or read by the pre-commit hooks, which track the
	// configure handshake in shell.ConfigureState instead (§4.8).
	AckedConfigureSerial uint32
	HasConfigured        bool

	// zOrder is not used by place_above/place_below, which reorder the
	// parent's Children slice.
	zOrder int
}

// ID returns the surface's arena identifier.
func (s *Surface) ID() ID { return s.id }

// Current returns the surface's current (last-committed) state.
func (s *Surface) Current() *State { return &s.current }

// Pending returns the surface's pending (being-built) state, for request
// handlers to mutate before the next commit.
func (s *Surface) Pending() *State { return &s.pending }

// SetRole assigns a role once. It returns false, leaving the role as it
// was, when a different role is already set; callers turn that into a
// protocol "role" error (§8 scenario 2). Re-setting the same role
// returns true.
func (s *Surface) SetRole(r Role) bool {
	if s.Role != RoleUnassigned && s.Role != r {
		return false
	}
	s.Role = r
	return true
}
